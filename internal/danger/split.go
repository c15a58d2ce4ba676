package danger

// Location is a file/line pair an inline comment is anchored to.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// InlineGroup is the subset of a result set anchored to one location.
type InlineGroup struct {
	Location
	Results ResultSet
}

// Regular returns the violations that are not inline. Meta is shared.
func (rs ResultSet) Regular() ResultSet {
	return ResultSet{
		Fails:     filter(rs.Fails, false),
		Warnings:  filter(rs.Warnings, false),
		Messages:  filter(rs.Messages, false),
		Markdowns: filter(rs.Markdowns, false),
		Meta:      rs.Meta,
	}
}

// Inline returns only the inline violations of every category.
func (rs ResultSet) Inline() ResultSet {
	return ResultSet{
		Fails:     filter(rs.Fails, true),
		Warnings:  filter(rs.Warnings, true),
		Messages:  filter(rs.Messages, true),
		Markdowns: filter(rs.Markdowns, true),
		Meta:      rs.Meta,
	}
}

// InlineGroups groups inline violations by location. Groups are returned in
// the order their location is first seen (fails, then warnings, messages,
// markdowns); violations keep their original relative order.
func (rs ResultSet) InlineGroups() []InlineGroup {
	var groups []InlineGroup
	index := make(map[Location]int)

	add := func(v Violation, pick func(*ResultSet) *[]Violation) {
		if !v.IsInline() {
			return
		}
		loc := Location{File: v.File, Line: v.Line}
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, InlineGroup{Location: loc, Results: ResultSet{Meta: rs.Meta}})
		}
		list := pick(&groups[i].Results)
		*list = append(*list, v)
	}

	for _, v := range rs.Fails {
		add(v, func(r *ResultSet) *[]Violation { return &r.Fails })
	}
	for _, v := range rs.Warnings {
		add(v, func(r *ResultSet) *[]Violation { return &r.Warnings })
	}
	for _, v := range rs.Messages {
		add(v, func(r *ResultSet) *[]Violation { return &r.Messages })
	}
	for _, v := range rs.Markdowns {
		add(v, func(r *ResultSet) *[]Violation { return &r.Markdowns })
	}
	return groups
}

func filter(vs []Violation, inline bool) []Violation {
	var out []Violation
	for _, v := range vs {
		if v.IsInline() == inline {
			out = append(out, v)
		}
	}
	return out
}
