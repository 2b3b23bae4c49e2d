package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func colors() Category {
	return Category{
		Title: "Colors",
		Icon:  "./assets/images/icon-colors.svg",
		Questions: []Question{
			{Text: "First?", Options: []string{"Red", "Blue"}, Answer: "Red"},
			{Text: "Second?", Options: []string{"Green", "Yellow"}, Answer: "Green"},
		},
	}
}

func TestValidateAcceptsWellFormedCatalog(t *testing.T) {
	assert.NoError(t, Validate(Catalog{Categories: []Category{colors()}}))
}

func TestValidateCategoryRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Category)
		want   error
	}{
		{"missing title", func(c *Category) { c.Title = " " }, ErrMissingTitle},
		{"missing icon", func(c *Category) { c.Icon = "" }, ErrMissingIcon},
		{"no questions", func(c *Category) { c.Questions = nil }, ErrNoQuestions},
		{"blank text", func(c *Category) { c.Questions[0].Text = "" }, ErrBlankQuestion},
		{"one option", func(c *Category) { c.Questions[0].Options = []string{"Red"} }, ErrTooFewOptions},
		{"duplicate option", func(c *Category) { c.Questions[0].Options = []string{"Red", "Red"} }, ErrDuplicateOption},
		{"blank answer", func(c *Category) { c.Questions[1].Answer = "  " }, ErrBlankAnswer},
		{"answer not an option", func(c *Category) { c.Questions[1].Answer = "Purple" }, ErrAnswerNotOption},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := colors()
			tc.mutate(&cat)
			assert.ErrorIs(t, ValidateCategory(cat), tc.want)
		})
	}
}

func TestValidateRejectsDuplicateTitlesAndEmptyCatalog(t *testing.T) {
	assert.ErrorIs(t, Validate(Catalog{}), ErrNoQuizzes)
	assert.ErrorIs(t, Validate(Catalog{Categories: []Category{colors(), colors()}}), ErrDuplicateTitle)
}

func TestCatalogFindAndSummaries(t *testing.T) {
	c := Catalog{Categories: []Category{colors()}}

	found, ok := c.Find("Colors")
	assert.True(t, ok)
	assert.Equal(t, "Colors", found.Title)

	_, ok = c.Find("Shapes")
	assert.False(t, ok)

	assert.Equal(t, []Summary{{Title: "Colors", Icon: "./assets/images/icon-colors.svg", QuestionCount: 2}}, c.Summaries())
}

func TestCategoryCloneDoesNotAlias(t *testing.T) {
	orig := colors()
	cp := orig.Clone()
	cp.Questions[0].Options[0] = "Mauve"
	cp.Questions[1].Answer = "Yellow"

	assert.Equal(t, "Red", orig.Questions[0].Options[0])
	assert.Equal(t, "Green", orig.Questions[1].Answer)
}
