// Package mock provides test double implementations of AI service interfaces.
//
// # Usage in Tests
//
//	analyzer := mock.NewMockAnalyzer().
//	    WithAnalyzeFunc(mock.Failing("model refused"))
//
//	// Check call counts and what was sent
//	count := analyzer.CallCount()
//	texts := analyzer.Texts()
//
// # Default Behavior
//
// MockAnalyzer succeeds with tags taken from the first words of the text and
// fixed values for the remaining fields.
package mock
