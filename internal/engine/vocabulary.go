package engine

// skillVocabulary is the canonical skill list shared by requirement extraction,
// profile extraction, and market trend analysis. Tokens are lowercase and the
// slice order defines the order of extracted skills.
var skillVocabulary = []string{
	"python", "javascript", "java", "c++", "c#", "go", "rust", "php",
	"react", "angular", "vue", "node.js", "django", "flask", "fastapi",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	"git", "jenkins", "ci/cd", "agile", "scrum",
	"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn",
	"pandas", "numpy", "matplotlib", "seaborn", "jupyter",
	"html", "css", "bootstrap", "tailwind", "sass",
	"rest api", "graphql", "microservices", "api design",
}

// Vocabulary returns a copy of the canonical skill vocabulary.
func Vocabulary() []string {
	out := make([]string, len(skillVocabulary))
	copy(out, skillVocabulary)
	return out
}
