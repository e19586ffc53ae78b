package resume

// Candidate holds the fields extracted from one resume.
// Every field has a usable zero value; Name falls back to UnknownName.
type Candidate struct {
	FilePath   string   `json:"file_path"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
	Keywords   []string `json:"keywords"`
	RawText    string   `json:"raw_text"`
}

// UnknownName is used when no plausible name line is found.
const UnknownName = "Unknown"

// SkillsVocabulary lists the technical skills searched for as plain substrings.
var SkillsVocabulary = []string{
	"python", "java", "javascript", "react", "node.js", "django", "flask",
	"sql", "postgresql", "mysql", "mongodb", "aws", "docker", "kubernetes",
	"git", "linux", "html", "css", "typescript", "angular", "vue",
	"machine learning", "deep learning", "tensorflow", "pytorch",
	"agile", "scrum", "ci/cd", "rest api", "graphql", "microservices",
}
