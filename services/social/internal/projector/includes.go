package projector

import (
	"strings"

	"social-feed/services/social/internal/entity"
)

type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindUser    Kind = "user"
)

const (
	IncludeAuthor      = "author"
	IncludeComments    = "comments"
	IncludePermissions = "permissions"
)

var allowedIncludes = map[Kind][]string{
	KindPost:    {IncludeAuthor, IncludeComments},
	KindComment: {IncludeAuthor},
	KindUser:    {IncludePermissions},
}

var defaultIncludes = map[Kind][]string{
	KindPost:    {IncludeAuthor},
	KindComment: {IncludeAuthor},
	KindUser:    {IncludePermissions},
}

// Includes is the fetch plan of one projection.
type Includes struct {
	Author      bool
	Comments    bool
	Permissions bool
}

func DefaultIncludes(kind Kind) Includes {
	var inc Includes
	for _, name := range defaultIncludes[kind] {
		inc.set(name)
	}
	return inc
}

// ParseIncludes adds the comma separated names in raw to the defaults of
// kind. Names outside the allow-list of kind fail validation.
func ParseIncludes(kind Kind, raw string) (Includes, error) {
	inc := DefaultIncludes(kind)
	if strings.TrimSpace(raw) == "" {
		return inc, nil
	}

	for _, name := range strings.Split(raw, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if !allowed(kind, name) {
			return Includes{}, entity.NewValidationError("include", "The selected include is invalid.")
		}
		inc.set(name)
	}
	return inc, nil
}

func allowed(kind Kind, name string) bool {
	for _, candidate := range allowedIncludes[kind] {
		if candidate == name {
			return true
		}
	}
	return false
}

func (inc *Includes) set(name string) {
	switch name {
	case IncludeAuthor:
		inc.Author = true
	case IncludeComments:
		inc.Comments = true
	case IncludePermissions:
		inc.Permissions = true
	}
}
