package profile

import (
	"testing"

	"jobfit/internal/types"
)

func TestExtractContactInfo(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		expectedEmail    string
		expectedPhone    string
		expectedLinkedIn string
		expectedGitHub   string
	}{
		{
			name:          "email",
			text:          "Reach me at jane.doe+work@example.co.uk for details",
			expectedEmail: "jane.doe+work@example.co.uk",
		},
		{
			name:          "phone with separators",
			text:          "Phone: 555-123-4567",
			expectedPhone: "555-123-4567",
		},
		{
			name:          "phone with country code and parens",
			text:          "Call +1 (555) 123-4567 anytime",
			expectedPhone: "+1 (555) 123-4567",
		},
		{
			name:             "linkedin gets https prefix",
			text:             "See linkedin.com/in/jane-doe for history",
			expectedLinkedIn: "https://linkedin.com/in/jane-doe",
		},
		{
			name:           "github gets https prefix",
			text:           "Code at github.com/janedoe",
			expectedGitHub: "https://github.com/janedoe",
		},
		{
			name:             "mixed case urls",
			text:             "LinkedIn.com/in/jane and GitHub.com/jane",
			expectedLinkedIn: "https://LinkedIn.com/in/jane",
			expectedGitHub:   "https://GitHub.com/jane",
		},
		{
			name: "nothing found",
			text: "No contact details in this resume",
		},
		{
			name: "empty text",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractContactInfo(tt.text)

			if info.Email != tt.expectedEmail {
				t.Errorf("Expected email '%s', got '%s'", tt.expectedEmail, info.Email)
			}
			if info.Phone != tt.expectedPhone {
				t.Errorf("Expected phone '%s', got '%s'", tt.expectedPhone, info.Phone)
			}
			if info.LinkedIn != tt.expectedLinkedIn {
				t.Errorf("Expected linkedin '%s', got '%s'", tt.expectedLinkedIn, info.LinkedIn)
			}
			if info.GitHub != tt.expectedGitHub {
				t.Errorf("Expected github '%s', got '%s'", tt.expectedGitHub, info.GitHub)
			}
		})
	}
}

func TestExtractProfile(t *testing.T) {
	resume := `Jane Doe
jane@example.com | 555-123-4567 | linkedin.com/in/jane-doe

Senior backend engineer with Python, Go, Docker and PostgreSQL.
MSc in Computer Science.`

	extracted := ExtractProfile(resume)

	expectedSkills := []string{"python", "go", "sql", "postgresql", "docker"}
	if len(extracted.Skills) != len(expectedSkills) {
		t.Fatalf("Expected skills %v, got %v", expectedSkills, extracted.Skills)
	}
	for i, want := range expectedSkills {
		if extracted.Skills[i] != want {
			t.Errorf("Expected skill[%d] = '%s', got '%s'", i, want, extracted.Skills[i])
		}
	}

	if extracted.ExperienceYears != 5 {
		t.Errorf("Expected 5 years from senior keyword, got %d", extracted.ExperienceYears)
	}
	if extracted.Education != types.EducationMasters {
		t.Errorf("Expected Masters from MSc, got '%s'", extracted.Education)
	}
	if extracted.Contact.Email != "jane@example.com" {
		t.Errorf("Expected email 'jane@example.com', got '%s'", extracted.Contact.Email)
	}
	if extracted.Contact.Phone != "555-123-4567" {
		t.Errorf("Expected phone '555-123-4567', got '%s'", extracted.Contact.Phone)
	}
	if extracted.Contact.LinkedIn != "https://linkedin.com/in/jane-doe" {
		t.Errorf("Expected linkedin URL, got '%s'", extracted.Contact.LinkedIn)
	}
	if extracted.Contact.GitHub != "" {
		t.Errorf("Expected no github URL, got '%s'", extracted.Contact.GitHub)
	}
}

func TestExtractProfileEmptyText(t *testing.T) {
	extracted := ExtractProfile("")

	if len(extracted.Skills) != 0 {
		t.Errorf("Expected no skills, got %v", extracted.Skills)
	}
	if extracted.ExperienceYears != 2 {
		t.Errorf("Expected default 2 years, got %d", extracted.ExperienceYears)
	}
	if extracted.Education != types.EducationHighSchool {
		t.Errorf("Expected High School default, got '%s'", extracted.Education)
	}
	if extracted.Contact != (types.ContactInfo{}) {
		t.Errorf("Expected empty contact info, got %+v", extracted.Contact)
	}
}
