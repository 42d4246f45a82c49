package deck

// Layout tags recognized by the normalizer. Unknown tags are accepted and
// treated as inert: the slide keeps its old fields and only the tag changes.
const (
	LayoutBlank        = "blank"
	LayoutTitleContent = "title-content"
	LayoutTitleOnly    = "title-only"
	LayoutContentOnly  = "content-only"
	LayoutTwoColumn    = "two-column"
	LayoutImageText    = "image-text"
	LayoutComparison   = "comparison"
)

// transferFunc migrates a slide's content fields when switching to a target
// layout. It runs before the layout tag itself is rewritten, so s.Layout
// still holds the previous layout.
type transferFunc func(s *Slide)

// layoutRule describes how to enter one target layout: the metadata it
// carries, per-previous-layout content migrations, and a fallback migration
// for any other previous layout.
type layoutRule struct {
	meta     func() LayoutMeta
	from     map[string]transferFunc
	fallback transferFunc
}

func orElse(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// joinColumns concatenates two column bodies with a blank line, omitting the
// separator when the right side is empty.
func joinColumns(left, right string) string {
	if right == "" {
		return left
	}
	return left + "\n\n" + right
}

func clearColumnFields(s *Slide) {
	s.ContentLeft = ""
	s.ContentRight = ""
	s.CompLeftTitle = ""
	s.CompLeftContent = ""
	s.CompRightTitle = ""
	s.CompRightContent = ""
	s.ImageSrc = ""
}

// layoutRules is the (fromLayout, toLayout) migration table. Each target
// layout owns one rule; the rule's from map keys on the previous layout.
var layoutRules = map[string]layoutRule{
	LayoutBlank: {
		meta: func() LayoutMeta { return LayoutMeta{Type: LayoutBlank} },
		fallback: func(s *Slide) {
			s.Title = ""
			s.Content = ""
		},
	},
	LayoutTitleContent: {
		meta: func() LayoutMeta { return LayoutMeta{Type: LayoutTitleContent} },
		from: map[string]transferFunc{
			LayoutTwoColumn: func(s *Slide) {
				s.Content = joinColumns(s.ContentLeft, s.ContentRight)
				clearColumnFields(s)
			},
			LayoutComparison: func(s *Slide) {
				s.Title = orElse(s.CompLeftTitle, s.Title)
				s.Content = joinColumns(s.CompLeftContent, s.CompRightContent)
				clearColumnFields(s)
			},
		},
		fallback: clearColumnFields,
	},
	LayoutTitleOnly: {
		meta: func() LayoutMeta { return LayoutMeta{Type: LayoutTitleOnly} },
		fallback: func(s *Slide) {
			s.Content = ""
		},
	},
	LayoutContentOnly: {
		meta: func() LayoutMeta { return LayoutMeta{Type: LayoutContentOnly} },
		fallback: func(s *Slide) {
			s.Title = ""
		},
	},
	LayoutTwoColumn: {
		meta: func() LayoutMeta { return LayoutMeta{Type: LayoutTwoColumn, Columns: 2} },
		from: map[string]transferFunc{
			LayoutComparison: func(s *Slide) {
				s.ContentLeft = orElse(s.ContentLeft, s.CompLeftContent)
				s.ContentRight = orElse(s.ContentRight, s.CompRightContent)
				s.Content = ""
			},
		},
		fallback: func(s *Slide) {
			s.ContentLeft = orElse(s.ContentLeft, s.Content)
			s.Content = ""
		},
	},
	LayoutImageText: {
		meta: func() LayoutMeta {
			return LayoutMeta{Type: LayoutImageText, Regions: []Region{{Type: "image"}, {Type: "text"}}}
		},
		fallback: func(s *Slide) {},
	},
	LayoutComparison: {
		meta: func() LayoutMeta { return LayoutMeta{Type: LayoutComparison, Columns: 2} },
		from: map[string]transferFunc{
			LayoutTwoColumn: func(s *Slide) {
				s.CompLeftTitle = orElse(s.CompLeftTitle, s.Title)
				s.CompLeftContent = orElse(s.CompLeftContent, s.ContentLeft)
				s.CompRightContent = orElse(s.CompRightContent, s.ContentRight)
				s.Title = ""
				s.Content = ""
			},
		},
		fallback: func(s *Slide) {
			s.CompLeftTitle = orElse(s.CompLeftTitle, s.Title)
			s.CompLeftContent = orElse(s.CompLeftContent, s.Content)
			s.Title = ""
			s.Content = ""
		},
	},
}

// normalizeLayout rewrites the slide's field set for the target layout,
// migrating content from the previous layout's fields where a rule exists.
// Unknown targets only retag the slide; old fields stay in place as inert
// data rather than being dropped.
func normalizeLayout(s *Slide, target string) {
	rule, ok := layoutRules[target]
	if !ok {
		s.Layout = target
		s.LayoutMeta = LayoutMeta{Type: target}
		return
	}
	if f, ok := rule.from[s.Layout]; ok {
		f(s)
	} else if rule.fallback != nil {
		rule.fallback(s)
	}
	s.Layout = target
	s.LayoutMeta = rule.meta()
}

// ApplyLayout switches the slide at index to the target layout and pushes a
// history snapshot.
func (d *Document) ApplyLayout(index int, layout string) {
	s := d.SlideByIndex(index)
	if s == nil {
		return
	}
	normalizeLayout(s, layout)
	d.touch()
	d.hist.Push(d.Slides)
}
