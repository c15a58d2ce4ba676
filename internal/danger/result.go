// Package danger holds the review result model consumed by the report
// renderer and the GitHub poster.
package danger

const (
	DefaultRuntimeName = "dangerJS"
	DefaultRuntimeHref = "https://danger.systems/js"
)

// Violation is a single reported finding. File and Line are optional; a
// violation carrying both is an inline violation.
type Violation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

// IsInline reports whether the violation points at a specific file and line.
func (v Violation) IsInline() bool {
	return v.File != "" && v.Line > 0
}

// Meta identifies the tool that produced a result set.
type Meta struct {
	RuntimeName string `json:"runtimeName"`
	RuntimeHref string `json:"runtimeHref"`
}

func DefaultMeta() Meta {
	return Meta{RuntimeName: DefaultRuntimeName, RuntimeHref: DefaultRuntimeHref}
}

// ResultSet is the four-category aggregate of violations. Markdowns are
// passed through verbatim by the renderer; the other three are tabulated.
type ResultSet struct {
	Fails     []Violation `json:"fails"`
	Warnings  []Violation `json:"warnings"`
	Messages  []Violation `json:"messages"`
	Markdowns []Violation `json:"markdowns"`
	Meta      *Meta       `json:"meta,omitempty"`
}

// ResolvedMeta returns the result set's meta, or DefaultMeta when it is
// absent or missing either field.
func (rs ResultSet) ResolvedMeta() Meta {
	if rs.Meta == nil || rs.Meta.RuntimeName == "" || rs.Meta.RuntimeHref == "" {
		return DefaultMeta()
	}
	return *rs.Meta
}

// Counts is the per-category size of a result set.
type Counts struct {
	Fails     int `json:"fails"`
	Warnings  int `json:"warnings"`
	Messages  int `json:"messages"`
	Markdowns int `json:"markdowns"`
}

func (c Counts) Total() int {
	return c.Fails + c.Warnings + c.Messages + c.Markdowns
}

func (rs ResultSet) Counts() Counts {
	return Counts{
		Fails:     len(rs.Fails),
		Warnings:  len(rs.Warnings),
		Messages:  len(rs.Messages),
		Markdowns: len(rs.Markdowns),
	}
}

// IsEmpty reports whether all four categories are empty.
func (rs ResultSet) IsEmpty() bool {
	return rs.Counts().Total() == 0
}

func (rs ResultSet) HasFails() bool {
	return len(rs.Fails) > 0
}
