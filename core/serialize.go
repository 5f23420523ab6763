package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types persisted by snapshot stores.
// Hand-written: the schema is three types and changes with the domain model,
// so the serializers live next to it.
var (
	IDMUS         = idMUS{}
	TimeMUS       = timeMUS{}
	VectorMUS     = ord.NewSliceSer[float32](raw.Float32)
	RepositoryMUS = repositoryMUS{}
)

var (
	_ mus.Serializer[ID]         = IDMUS
	_ mus.Serializer[time.Time]  = TimeMUS
	_ mus.Serializer[Repository] = RepositoryMUS
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// timeMUS serializes timestamps as a presence flag plus microseconds since
// the Unix epoch. The flag keeps the zero value ("unknown") round-trippable,
// which UnixMicro alone cannot represent.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) (n int) {
	present := !t.IsZero()
	n = ord.Bool.Marshal(present, bs)
	if present {
		n += varint.Int64.Marshal(t.UnixMicro(), bs[n:])
	}
	return n
}

func (timeMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return time.Time{}, n, err
	}
	micro, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) (size int) {
	present := !t.IsZero()
	size = ord.Bool.Size(present)
	if present {
		size += varint.Int64.Size(t.UnixMicro())
	}
	return size
}

func (s timeMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type repositoryMUS struct{}

func (repositoryMUS) Marshal(r Repository, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Name, bs[n:])
	n += ord.String.Marshal(r.FullName, bs[n:])
	n += ord.String.Marshal(r.Description, bs[n:])
	n += ord.String.Marshal(r.HTMLURL, bs[n:])
	n += ord.String.Marshal(r.Language, bs[n:])
	n += ord.String.Marshal(r.ReadmeExcerpt, bs[n:])
	n += varint.Int64.Marshal(r.Stars, bs[n:])
	n += TimeMUS.Marshal(r.CreatedAt, bs[n:])
	n += TimeMUS.Marshal(r.PushedAt, bs[n:])
	n += ord.Bool.Marshal(r.HasWiki, bs[n:])
	n += ord.Bool.Marshal(r.HasReadme, bs[n:])
	return n
}

func (repositoryMUS) Unmarshal(bs []byte) (r Repository, n int, err error) {
	var n1 int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return r, n, err
	}
	if r.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.FullName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.HTMLURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Language, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.ReadmeExcerpt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Stars, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.PushedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.HasWiki, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.HasReadme, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return r, n, nil
}

func (repositoryMUS) Size(r Repository) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.Name)
	size += ord.String.Size(r.FullName)
	size += ord.String.Size(r.Description)
	size += ord.String.Size(r.HTMLURL)
	size += ord.String.Size(r.Language)
	size += ord.String.Size(r.ReadmeExcerpt)
	size += varint.Int64.Size(r.Stars)
	size += TimeMUS.Size(r.CreatedAt)
	size += TimeMUS.Size(r.PushedAt)
	size += ord.Bool.Size(r.HasWiki)
	size += ord.Bool.Size(r.HasReadme)
	return size
}

func (s repositoryMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
