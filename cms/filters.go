package cms

import (
	"strings"

	"github.com/getwebfast/site-backend/models"
)

// AllCategories is the category value that disables filtering.
const AllCategories = "All"

// matchesCategory compares exactly: "saas" is not the "SaaS" category and
// "all" is an ordinary category name.
func matchesCategory(value, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return value == category
}

// FilterPosts keeps posts whose title or excerpt contains search
// (case-insensitive) and whose category matches.
func FilterPosts(posts []*models.Post, search, category string) []*models.Post {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if !matchesCategory(p.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Excerpt), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PostCategories returns "All" followed by each distinct category in the
// order it first appears.
func PostCategories(posts []*models.Post) []string {
	categories := []string{AllCategories}
	seen := map[string]bool{}
	for _, p := range posts {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	return categories
}

func FilterProjectsByCategory(projects []*models.Project, category string) []*models.Project {
	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if matchesCategory(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}
