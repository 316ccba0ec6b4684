package batch

import (
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/advance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceBatchesAreCappedBelowGlobalLimit(t *testing.T) {
	ids := make([]string, MaxAdvanceItems+1)
	for i := range ids {
		ids[i] = "id"
	}

	action := SubmitAdvanceActionRequest{Action: string(AdvanceActionApprove), AdvanceIDs: ids}
	err := action.Validate(1000)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "advance_request_ids", verrs[0].Field)

	requests := SubmitAdvanceBatchRequest{Requests: make([]advance.RequestAdvanceRequest, MaxAdvanceItems+1)}
	require.ErrorAs(t, requests.Validate(1000), &verrs)
	assert.Equal(t, "requests", verrs[0].Field)

	action.AdvanceIDs = ids[:MaxAdvanceItems]
	assert.NoError(t, action.Validate(1000))

	// A lower global limit still wins.
	action.AdvanceIDs = ids[:11]
	assert.Error(t, action.Validate(10))

	payrolls := SubmitPayrollBatchRequest{Payrolls: make([]payroll.GeneratePayrollRequest, MaxAdvanceItems+1)}
	assert.NoError(t, payrolls.Validate(1000))
}
