package catalog

// Question is a single multiple-choice prompt. JSON names follow the quiz data file.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Category groups an ordered list of questions under a unique title.
type Category struct {
	Title     string     `json:"title"`
	Icon      string     `json:"icon"`
	Questions []Question `json:"questions"`
}

// Catalog is the immutable set of categories handed to session engines.
type Catalog struct {
	Categories []Category `json:"quizzes"`
}

// Find returns the category with the given title.
func (c Catalog) Find(title string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Title == title {
			return cat, true
		}
	}
	return Category{}, false
}

// Summary is the lightweight view of a category listed on the start menu.
type Summary struct {
	Title         string `json:"title"`
	Icon          string `json:"icon"`
	QuestionCount int    `json:"question_count"`
}

// Summaries lists every category without its questions.
func (c Catalog) Summaries() []Summary {
	out := make([]Summary, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = Summary{
			Title:         cat.Title,
			Icon:          cat.Icon,
			QuestionCount: len(cat.Questions),
		}
	}
	return out
}

// Clone returns a deep copy so callers never alias catalog-owned slices.
func (c Category) Clone() Category {
	out := Category{Title: c.Title, Icon: c.Icon}
	if c.Questions != nil {
		out.Questions = make([]Question, len(c.Questions))
		for i, q := range c.Questions {
			out.Questions[i] = Question{
				Text:    q.Text,
				Options: append([]string(nil), q.Options...),
				Answer:  q.Answer,
			}
		}
	}
	return out
}
