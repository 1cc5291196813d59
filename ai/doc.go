// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the text analysis service used by psenrich.
//
// The service reads a problem statement description and derives tags, a tech
// stack, a summary, approach steps and a difficulty level.
//
// # Design Principles
//
//   - Analyzer: Analyze(ctx, text) returns a Result or an error
//   - Result: a validated Analysis (Succeeded) or a failure reason (Failed)
//   - AIProvider: aggregates AI services for convenient initialization
//
// An error from Analyze means the call itself did not complete. A Failed
// result means the service answered but the answer could not be used. Callers
// treat the two differently.
//
// Raw model output crosses into the domain only through ParseAnalysis, which
// checks it against AnalysisSchema.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible chat APIs through langchaingo
//   - ai/gemini: the Gemini API with structured output
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, gemini.NewProvider) return
// INTERFACE types. Test utility constructors (mock.NewMockAnalyzer) return
// CONCRETE types to enable test assertions and behavior injection.
//
// # Usage Example
//
//	provider, err := openai.NewProvider(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.Analyzer().Analyze(ctx, description)
//	if err != nil {
//	    // transport or timeout
//	}
//	if analysis, ok := result.Analysis(); ok {
//	    analysis = analysis.WithDefaults()
//	}
package ai
