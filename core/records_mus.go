package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Binary codecs for values persisted in badger. The wire layout of each
// record is a fixed field order; appending fields at the end is the only
// compatible change.

var (
	IDMUS             = idMUS{}
	EnrichedRecordMUS = enrichedRecordMUS{}
	RunRecordMUS      = runRecordMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// strings are encoded as a varint count followed by each element.
type stringsMUS struct{}

func (stringsMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return
}

func (stringsMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs) {
		return nil, n, ErrCorruptRecord
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (stringsMUS) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return
}

// times are encoded as unix microseconds.
type timeMUS struct{}

func (timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

var (
	stringSliceMUS = stringsMUS{}
	timestampMUS   = timeMUS{}
)

type enrichedRecordMUS struct{}

func (enrichedRecordMUS) Marshal(v EnrichedRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	for _, s := range v.textFields() {
		n += ord.String.Marshal(s, bs[n:])
	}
	n += stringSliceMUS.Marshal(v.Tags, bs[n:])
	n += stringSliceMUS.Marshal(v.TechStack, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += stringSliceMUS.Marshal(v.Approach, bs[n:])
	n += ord.String.Marshal(string(v.Difficulty), bs[n:])
	n += IDMUS.Marshal(v.SourceDigest, bs[n:])
	n += timestampMUS.Marshal(v.InsertedAt, bs[n:])
	return
}

func (enrichedRecordMUS) Unmarshal(bs []byte) (v EnrichedRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for _, dst := range v.textFieldPtrs() {
		*dst, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	if v.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.TechStack, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Approach, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var difficulty string
	if difficulty, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Difficulty = Difficulty(difficulty)
	if v.SourceDigest, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.InsertedAt, n1, err = timestampMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (enrichedRecordMUS) Size(v EnrichedRecord) (size int) {
	size = IDMUS.Size(v.Id)
	for _, s := range v.textFields() {
		size += ord.String.Size(s)
	}
	size += stringSliceMUS.Size(v.Tags)
	size += stringSliceMUS.Size(v.TechStack)
	size += ord.String.Size(v.Summary)
	size += stringSliceMUS.Size(v.Approach)
	size += ord.String.Size(string(v.Difficulty))
	size += IDMUS.Size(v.SourceDigest)
	return size + timestampMUS.Size(v.InsertedAt)
}

func (r *EnrichedRecord) textFields() []string {
	return []string{
		r.ExternalID, r.Title, r.Description, r.Organization, r.Department,
		r.Category, r.Theme, r.Contact, r.YoutubeLink, r.DatasetLink,
	}
}

func (r *EnrichedRecord) textFieldPtrs() []*string {
	return []*string{
		&r.ExternalID, &r.Title, &r.Description, &r.Organization, &r.Department,
		&r.Category, &r.Theme, &r.Contact, &r.YoutubeLink, &r.DatasetLink,
	}
}

type runRecordMUS struct{}

func (runRecordMUS) Marshal(v RunRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.RunID, bs)
	n += ord.String.Marshal(string(v.Mode), bs[n:])
	n += timestampMUS.Marshal(v.StartedAt, bs[n:])
	n += timestampMUS.Marshal(v.FinishedAt, bs[n:])
	for _, c := range []int{v.Total, v.Created, v.Skipped, v.Failed} {
		n += varint.Int.Marshal(c, bs[n:])
	}
	return
}

func (runRecordMUS) Unmarshal(bs []byte) (v RunRecord, n int, err error) {
	if v.RunID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var (
		n1   int
		mode string
	)
	if mode, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Mode = RunMode(mode)
	if v.StartedAt, n1, err = timestampMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.FinishedAt, n1, err = timestampMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	for _, dst := range []*int{&v.Total, &v.Created, &v.Skipped, &v.Failed} {
		*dst, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (runRecordMUS) Size(v RunRecord) (size int) {
	size = ord.String.Size(v.RunID)
	size += ord.String.Size(string(v.Mode))
	size += timestampMUS.Size(v.StartedAt)
	size += timestampMUS.Size(v.FinishedAt)
	for _, c := range []int{v.Total, v.Created, v.Skipped, v.Failed} {
		size += varint.Int.Size(c)
	}
	return
}
