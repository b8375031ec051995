package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
)

var now = time.Date(2025, 3, 15, 2, 0, 0, 0, time.UTC)

func daysAgo(days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func TestPolicyTable(t *testing.T) {
	expected := map[model.DataCategory]struct {
		days      int
		delete    bool
		anonymize bool
	}{
		model.CategoryPersonal:   {days: 3650, delete: false, anonymize: true},
		model.CategoryFinancial:  {days: 3650, delete: false, anonymize: false},
		model.CategorySensitive:  {days: 2555, delete: true, anonymize: false},
		model.CategoryBehavioral: {days: 730, delete: true, anonymize: true},
		model.CategoryTechnical:  {days: 90, delete: true, anonymize: false},
	}

	all := Policies()
	require.Len(t, all, len(expected))
	for _, p := range all {
		e, ok := expected[p.Category]
		require.True(t, ok, "unexpected category %s", p.Category)
		require.Equal(t, e.days, p.RetentionDays, "retention days of %s", p.Category)
		require.Equal(t, e.delete, p.AutoDelete, "auto delete of %s", p.Category)
		require.Equal(t, e.anonymize, p.AnonymizeInstead, "anonymize of %s", p.Category)
		require.NotEmpty(t, p.Description)
		require.NotEmpty(t, p.LegalRequirement)
	}

	t.Log("returned table is a copy")
	{
		all[0].RetentionDays = 1
		p, err := PolicyFor(all[0].Category)
		require.NoError(t, err)
		require.NotEqual(t, 1, p.RetentionDays)
	}
}

func TestUnknownCategory(t *testing.T) {
	_, err := PolicyFor("biometric")
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = ShouldRetain("biometric", now, now)
	require.Error(t, err)

	_, err = ExpirationDate("biometric", now)
	require.Error(t, err)

	_, err = Decide("biometric", now, now)
	require.Error(t, err)
}

func TestExpirationDate(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	exp, err := ExpirationDate(model.CategoryTechnical, createdAt)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC), exp)
}

func TestShouldRetainBoundary(t *testing.T) {
	p, err := PolicyFor(model.CategoryBehavioral)
	require.NoError(t, err)

	createdAt := daysAgo(730)

	t.Log("exactly at retention boundary data is retained")
	{
		require.True(t, p.ShouldRetain(createdAt, now))
	}

	t.Log("one moment after boundary data is expired")
	{
		require.False(t, p.ShouldRetain(createdAt, now.Add(time.Nanosecond)))
	}

	t.Log("once expired data stays expired")
	{
		for d := 1; d <= 400; d += 37 {
			retain, err := ShouldRetain(model.CategoryBehavioral, createdAt, now.AddDate(0, 0, d))
			require.NoError(t, err)
			require.False(t, retain, "data must stay expired %d days after boundary", d)
		}
	}

	t.Log("before boundary data is retained")
	{
		retain, err := ShouldRetain(model.CategoryBehavioral, daysAgo(729), now)
		require.NoError(t, err)
		require.True(t, retain)
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		category model.DataCategory
		age      int
		action   Action
	}{
		{category: model.CategoryBehavioral, age: 800, action: ActionAnonymize},
		{category: model.CategoryBehavioral, age: 100, action: ActionRetain},
		{category: model.CategoryPersonal, age: 3651, action: ActionAnonymize},
		{category: model.CategorySensitive, age: 2556, action: ActionDelete},
		{category: model.CategoryTechnical, age: 91, action: ActionDelete},
		{category: model.CategoryTechnical, age: 90, action: ActionRetain},
		{category: model.CategoryFinancial, age: 4000, action: ActionRetainWithWarning},
		{category: model.CategoryFinancial, age: 10, action: ActionRetain},
	}

	for _, c := range cases {
		action, err := Decide(c.category, daysAgo(c.age), now)
		require.NoError(t, err)
		require.Equal(t, c.action, action, "%s data aged %d days", c.category, c.age)
	}
}

func TestCutoff(t *testing.T) {
	p, err := PolicyFor(model.CategoryTechnical)
	require.NoError(t, err)

	cutoff := p.Cutoff(now)
	require.True(t, p.ShouldRetain(cutoff, now))
	require.False(t, p.ShouldRetain(cutoff.Add(-time.Second), now))
}

func TestAnonymizePersonalData(t *testing.T) {
	dob := time.Date(1985, 6, 1, 0, 0, 0, 0, time.UTC)
	data := model.PersonalData{
		FirstName:      "Anna",
		LastName:       "Muster",
		Email:          "anna.muster@bluewin.ch",
		Phone:          "+41 79 123 45 67",
		DateOfBirth:    &dob,
		Street:         "Bahnhofstrasse 1",
		City:           "Zürich",
		PostalCode:     "8001",
		Canton:         "ZH",
		Country:        "Switzerland",
		DriversLicense: "123456",
		Passport:       "X1234567",
	}

	anon := AnonymizePersonalData(data)
	require.Equal(t, model.PersonalData{
		FirstName:      "ANONYMIZED",
		LastName:       "ANONYMIZED",
		Email:          "anonymized@bluewin.ch",
		Phone:          "+41 XX XXX XX XX",
		Street:         "ANONYMIZED",
		City:           "ANONYMIZED",
		PostalCode:     "XXXX",
		Canton:         "ZH",
		Country:        "CH",
		DriversLicense: "ANONYMIZED",
		Passport:       "ANONYMIZED",
	}, anon)

	t.Log("anonymization is a fixed point")
	{
		require.Equal(t, anon, AnonymizePersonalData(anon))
	}
}

func TestAnonymizeContactFields(t *testing.T) {
	require.Equal(t, "ANONYMIZED", AnonymizeEmail(""))
	require.Equal(t, "anonymized@example.com", AnonymizeEmail("broken-email"))
	require.Equal(t, "anonymized@example.com", AnonymizeEmail("user@"))
	require.Equal(t, "ANONYMIZED", AnonymizePhone("044 668 18 00"))
	require.Equal(t, "ANONYMIZED", AnonymizePhone(""))
	require.Equal(t, "+41 XX XXX XX XX", AnonymizePhone("+41 44 668 18 00"))
}
