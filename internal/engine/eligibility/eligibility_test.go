// internal/engine/eligibility/eligibility_test.go
package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kjet-workers/internal/engine/cohort"
	"kjet-workers/internal/models"
)

func contentApp(region string) *models.ApplicationRecord {
	return &models.ApplicationRecord{
		ID:     "app-1",
		Region: region,
	}
}

func TestForCohort(t *testing.T) {
	c2024, err := cohort.ByID("cohort-2024")
	require.NoError(t, err)
	c2025, err := cohort.ByID("cohort-2025")
	require.NoError(t, err)

	assert.IsType(t, &ContentPolicy{}, ForCohort(c2024))
	assert.IsType(t, &StructuredPolicy{}, ForCohort(c2025))
}

func TestContentPolicy_AllGatesPass(t *testing.T) {
	policy := ForCohort(cohort.Cohort2024())
	content := "registered dairy cooperative in nakuru county, kiamunyi ward. " +
		"bank statement attached. contact 0712345678."

	result := policy.Evaluate(contentApp("Nakuru"), content)

	assert.True(t, result.Eligible)
	assert.Empty(t, result.FailureReasons)
	for _, gate := range models.Gates {
		assert.True(t, result.Criteria[gate], string(gate))
	}
}

func TestContentPolicy_RegistrationFromCertificateNumber(t *testing.T) {
	policy := &ContentPolicy{cfg: cohort.Cohort2024()}
	content := "certificate of registration no. bn-1234 for a dairy processor " +
		"in nakuru county, milimani ward, phone 0712345678, bank statement attached"

	result := policy.Evaluate(contentApp("Nakuru"), content)

	assert.True(t, result.Criteria[models.GateRegistration])
	assert.True(t, result.Eligible)
}

func TestContentPolicy_MissingFinancialEvidenceFailsClosed(t *testing.T) {
	policy := &ContentPolicy{cfg: cohort.Cohort2024()}
	content := "registered dairy cooperative in nakuru county, kiamunyi ward, contact us"

	result := policy.Evaluate(contentApp("Nakuru"), content)

	assert.False(t, result.Eligible)
	assert.False(t, result.Criteria[models.GateFinancial])
	assert.Contains(t, result.FailedGates(), models.GateFinancial)
	require.NotEmpty(t, result.FailureReasons)
	assert.Contains(t, result.FailureReasons[0], string(models.GateFinancial))
}

func TestContentPolicy_EmptyContentFailsEverything(t *testing.T) {
	policy := &ContentPolicy{cfg: cohort.Cohort2024()}

	result := policy.Evaluate(contentApp("Nakuru"), "")

	assert.False(t, result.Eligible)
	assert.Len(t, result.FailedGates(), len(models.Gates))
}

func TestContentPolicy_RegionMismatchFailsMapping(t *testing.T) {
	policy := &ContentPolicy{cfg: cohort.Cohort2024()}
	content := "registered dairy cooperative in kisumu county, central ward, " +
		"bank statement, phone 0712345678"

	result := policy.Evaluate(contentApp("Nakuru"), content)

	assert.False(t, result.Criteria[models.GateRegionMapping])
	assert.False(t, result.Eligible)
}

func TestContentPolicy_AttachedDocumentsSatisfyFinancialGate(t *testing.T) {
	policy := &ContentPolicy{cfg: cohort.Cohort2024()}
	app := contentApp("Nakuru")
	app.FinancialDocuments = []models.DocumentRef{{Name: "statement.pdf"}}

	result := policy.Evaluate(app, "registered dairy group in nakuru county, soin ward, contact us")

	assert.True(t, result.Criteria[models.GateFinancial])
}

func TestStructuredPolicy_GatesFromMetadata(t *testing.T) {
	policy := &StructuredPolicy{cfg: cohort.Cohort2025()}
	app := &models.ApplicationRecord{
		ID:     "app-2",
		Region: "Kisumu",
		StructuredMetadata: map[string]interface{}{
			"registration_status": "Private Company",
			"value_chain":         "Rice processing",
			"turnover_2024":       "4,500,000",
		},
	}

	result := policy.Evaluate(app, "")

	assert.True(t, result.Eligible)
	assert.True(t, result.Criteria[models.GateRegionMapping])
	assert.True(t, result.Criteria[models.GateContactability])
}

func TestStructuredPolicy_UnregisteredStatusFailsE1(t *testing.T) {
	policy := &StructuredPolicy{cfg: cohort.Cohort2025()}
	app := &models.ApplicationRecord{
		ID:     "app-3",
		Region: "Kisumu",
		StructuredMetadata: map[string]interface{}{
			"registration_status": "unregistered",
			"value_chain":         "Tea",
			"turnover_2024":       "1,000,000",
		},
	}

	result := policy.Evaluate(app, "")

	assert.False(t, result.Eligible)
	assert.Contains(t, result.FailedGates(), models.GateRegistration)
}

func TestStructuredPolicy_RegistrationNumberFromContent(t *testing.T) {
	policy := &StructuredPolicy{cfg: cohort.Cohort2025()}
	app := &models.ApplicationRecord{ID: "app-4", Region: "Kisumu"}
	content := "certificate of registration no. bn-1234, tea processing, mpesa statements available"

	result := policy.Evaluate(app, content)

	assert.True(t, result.Criteria[models.GateRegistration])
	assert.True(t, result.Eligible)
}

func TestStructuredPolicy_NoFinancialSignalFailsE4(t *testing.T) {
	policy := &StructuredPolicy{cfg: cohort.Cohort2025()}
	app := &models.ApplicationRecord{
		ID:     "app-5",
		Region: "Kisumu",
		StructuredMetadata: map[string]interface{}{
			"registration_status": "cooperative",
			"value_chain":         "Dairy",
		},
	}

	result := policy.Evaluate(app, "we aggregate milk from local farmers")

	assert.False(t, result.Eligible)
	assert.Contains(t, result.FailedGates(), models.GateFinancial)
}
