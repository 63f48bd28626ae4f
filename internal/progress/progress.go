// Package progress derives dashboard statistics from module lists. All
// numbers here are presentation-side rollups of server-computed progress
// values; nothing in this package feeds back into grading.
package progress

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ashwin/langmate/internal/api"
)

// CompleteThreshold is the progress percentage at which a module counts as
// complete. 95, not 100: checklists round down and the last few percent are
// noise, so the product treats >=95 as done.
const CompleteThreshold = 95.0

// Summary holds the headline numbers for the dashboard stats card.
type Summary struct {
	Overall   float64 // arithmetic mean of module progress, 0 when empty
	Completed int     // modules at or above CompleteThreshold
	Total     int
}

// LanguageGroup is one language's modules, ordered by module id.
type LanguageGroup struct {
	Language string
	Modules  []api.LearningModule
}

// Summarize computes the headline stats for a module list.
func Summarize(modules []api.LearningModule) Summary {
	if len(modules) == 0 {
		return Summary{}
	}

	sum := lo.SumBy(modules, func(m api.LearningModule) float64 { return m.Progress })
	completed := lo.CountBy(modules, func(m api.LearningModule) bool {
		return m.Progress >= CompleteThreshold
	})

	return Summary{
		Overall:   sum / float64(len(modules)),
		Completed: completed,
		Total:     len(modules),
	}
}

// GroupByLanguage groups modules by language identifier. Group order is
// lexicographic by language and module order within a group is lexicographic
// by id, so identical inputs in any order produce identical output.
func GroupByLanguage(modules []api.LearningModule) []LanguageGroup {
	byLang := lo.GroupBy(modules, func(m api.LearningModule) string { return m.Language })

	langs := lo.Keys(byLang)
	sort.Strings(langs)

	groups := make([]LanguageGroup, 0, len(langs))
	for _, lang := range langs {
		mods := append([]api.LearningModule(nil), byLang[lang]...)
		sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })
		groups = append(groups, LanguageGroup{Language: lang, Modules: mods})
	}
	return groups
}

// FilterByLanguage returns the modules matching language, or all modules
// when language is empty.
func FilterByLanguage(modules []api.LearningModule, language string) []api.LearningModule {
	if language == "" {
		return modules
	}
	return lo.Filter(modules, func(m api.LearningModule, _ int) bool {
		return m.Language == language
	})
}

// Languages returns the distinct language identifiers, sorted.
func Languages(modules []api.LearningModule) []string {
	langs := lo.Uniq(lo.Map(modules, func(m api.LearningModule, _ int) string { return m.Language }))
	sort.Strings(langs)
	return langs
}
