package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Writing", want: CategoryCognitive},
		{name: "Reading Comprehension", want: CategoryCognitive},
		{name: "Critical Reasoning", want: CategoryCognitive},
		{name: "Active Listening", want: CategorySocial},
		{name: "Negotiation", want: CategorySocial},
		{name: "Programming", want: CategoryTechnical},
		{name: "Operations Monitoring", want: CategoryTechnical},
		{name: "Typing", want: CategoryRoutineClerical},
		{name: "Data Entry", want: CategoryRoutineClerical},
		{name: "Persuasion", want: CategoryOther},
		{name: "", want: CategoryOther},
		// earliest rule wins when several match
		{name: "Data Analysis", want: CategoryCognitive},
		{name: "Social Media Programming", want: CategorySocial},
		{name: "Systems Record Keeping", want: CategoryTechnical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.name))
		})
	}
}

func TestNewCategorizedRecord(t *testing.T) {
	r := NewCategorizedRecord(Derive(RawRecord{SkillName: "Mathematics", ScaleID: "IM", Value: 2}))
	assert.Equal(t, CategoryCognitive, r.Category)
	assert.Equal(t, "Mathematics", r.SkillName)
}
