package types

// EducationLevel is one of the recognized education tiers.
type EducationLevel string

const (
	EducationHighSchool EducationLevel = "High School"
	EducationBachelors  EducationLevel = "Bachelors"
	EducationMasters    EducationLevel = "Masters"
	EducationPhD        EducationLevel = "PhD"
)

// CandidateProfile describes the candidate being matched against job postings.
type CandidateProfile struct {
	Skills          []string       `json:"skills"`
	ExperienceYears int            `json:"experienceYears"`
	Education       EducationLevel `json:"education"`
}

// JobRequirements holds the structured requirements extracted from a job description.
type JobRequirements struct {
	Skills          []string       `json:"skills"`
	ExperienceYears int            `json:"experienceYears"`
	Education       EducationLevel `json:"education"`
}

// RecommendationKind classifies a synthesized recommendation.
type RecommendationKind string

const (
	RecommendationSkillGap      RecommendationKind = "skill_gap"
	RecommendationExperienceGap RecommendationKind = "experience_gap"
	RecommendationReadyToApply  RecommendationKind = "ready_to_apply"
)

// Priority indicates how urgent a recommendation is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Recommendation is a single actionable suggestion derived from a match.
type Recommendation struct {
	Kind     RecommendationKind `json:"kind"`
	Priority Priority           `json:"priority"`
	Message  string             `json:"message"`
}

// CompatibilityResult is the full outcome of matching a profile against a job description.
// All scores are 0-100, rounded to one decimal place.
type CompatibilityResult struct {
	OverallScore    float64          `json:"overallScore"`
	SkillScore      float64          `json:"skillScore"`
	ExperienceScore float64          `json:"experienceScore"`
	EducationScore  float64          `json:"educationScore"`
	Requirements    JobRequirements  `json:"requirements"`
	MatchedSkills   []string         `json:"matchedSkills"`
	MissingSkills   []string         `json:"missingSkills"`
	Recommendations []Recommendation `json:"recommendations"`
}

// JobPosting is a single job listing supplied by the caller.
type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	SalaryRange string `json:"salaryRange,omitempty"`
}

// SkillCount pairs a skill with how many postings mentioned it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CompanyCount pairs a company with how many postings it appeared in.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// MarketTrends summarizes skill and company frequencies across a batch of postings.
type MarketTrends struct {
	TopSkills     []SkillCount   `json:"topSkills"`
	TopCompanies  []CompanyCount `json:"topCompanies"`
	TotalAnalyzed int            `json:"totalAnalyzed"`
}

// RankedJob is a posting annotated with its relevance to a candidate.
type RankedJob struct {
	JobPosting
	RelevanceScore float64  `json:"relevanceScore"`
	MatchingSkills []string `json:"matchingSkills"`
}

// ContactInfo holds contact details pulled out of a resume.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ExtractedProfile is a candidate profile recovered from free-form resume text.
type ExtractedProfile struct {
	CandidateProfile
	Contact ContactInfo `json:"contact"`
}

// TailorResumeInput represents the input for tailoring a resume.
type TailorResumeInput struct {
	BaseResume     string `json:"baseResume"`
	JobDescription string `json:"jobDescription"`
	JobTitle       string `json:"jobTitle,omitempty"`
	Company        string `json:"company,omitempty"`
}

// TailorResumeOutput represents the output from tailoring a resume.
type TailorResumeOutput struct {
	TailoredResume   string   `json:"tailoredResume"`
	CoverLetter      string   `json:"coverLetter"`
	EmphasizedSkills []string `json:"emphasizedSkills"`
}
