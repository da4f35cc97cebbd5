package engine

import (
	"sort"

	"jobfit/internal/types"
)

const topListLimit = 10

// AnalyzeMarketTrends aggregates skill and company frequencies across a batch
// of postings. Top lists are capped at ten entries, ordered by descending
// count with ties broken by first appearance in the input sequence. Postings
// with an empty company contribute no company count.
func AnalyzeMarketTrends(jobs []types.JobPosting) types.MarketTrends {
	skills := newFrequencyCounter()
	companies := newFrequencyCounter()

	for _, job := range jobs {
		for _, skill := range ExtractSkills(job.Description) {
			skills.Add(skill)
		}
		if job.Company != "" {
			companies.Add(job.Company)
		}
	}

	topSkills := make([]types.SkillCount, 0, topListLimit)
	for _, e := range skills.Top(topListLimit) {
		topSkills = append(topSkills, types.SkillCount{Skill: e.Key, Count: e.Count})
	}
	topCompanies := make([]types.CompanyCount, 0, topListLimit)
	for _, e := range companies.Top(topListLimit) {
		topCompanies = append(topCompanies, types.CompanyCount{Company: e.Key, Count: e.Count})
	}

	return types.MarketTrends{
		TopSkills:     topSkills,
		TopCompanies:  topCompanies,
		TotalAnalyzed: len(jobs),
	}
}

// frequencyCounter counts string occurrences while remembering first-seen
// order for deterministic tie-breaking.
type frequencyCounter struct {
	counts map[string]int
	order  []string
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{counts: make(map[string]int)}
}

func (f *frequencyCounter) Add(key string) {
	if _, seen := f.counts[key]; !seen {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

type frequencyEntry struct {
	Key   string
	Count int
}

// Top returns up to n entries ordered by descending count. The stable sort
// over the first-seen ordering keeps equal counts in encounter order.
func (f *frequencyCounter) Top(n int) []frequencyEntry {
	entries := make([]frequencyEntry, 0, len(f.order))
	for _, key := range f.order {
		entries = append(entries, frequencyEntry{Key: key, Count: f.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
