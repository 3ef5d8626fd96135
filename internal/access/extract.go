package access

import (
	"strconv"
	"strings"
)

// Source is the part of a request that identifiers are read from.
// *gin.Context satisfies it.
type Source interface {
	GetPostForm(key string) (string, bool)
	Param(key string) string
	GetQuery(key string) (string, bool)
}

type Location string

const (
	InForm  Location = "form"
	InPath  Location = "path"
	InQuery Location = "query"
)

type Extractor struct {
	In  Location
	Key string
}

func Form(key string) Extractor  { return Extractor{In: InForm, Key: key} }
func Path(key string) Extractor  { return Extractor{In: InPath, Key: key} }
func Query(key string) Extractor { return Extractor{In: InQuery, Key: key} }

func (e Extractor) lookup(src Source) string {
	var v string
	switch e.In {
	case InForm:
		v, _ = src.GetPostForm(e.Key)
	case InPath:
		v = src.Param(e.Key)
	case InQuery:
		v, _ = src.GetQuery(e.Key)
	}
	return strings.TrimSpace(v)
}

// Extractors is tried in order; the first non-empty value wins.
type Extractors []Extractor

func From(xs ...Extractor) Extractors { return xs }

func (xs Extractors) Raw(src Source) (string, bool) {
	for _, x := range xs {
		if v := x.lookup(src); v != "" {
			return v, true
		}
	}
	return "", false
}

// ID reads and parses the identifier. ok is false when no extractor found a
// value; a value that is not an integer yields ErrInvalidResourceID.
func (xs Extractors) ID(src Source) (id int64, ok bool, err error) {
	raw, found := xs.Raw(src)
	if !found {
		return 0, false, nil
	}
	id, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		return 0, true, ErrInvalidResourceID
	}
	return id, true, nil
}
