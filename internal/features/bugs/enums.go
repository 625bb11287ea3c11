package bugs

type BugPriority string

const (
	BugPriorityLow      BugPriority = "LOW"
	BugPriorityMedium   BugPriority = "MEDIUM"
	BugPriorityHigh     BugPriority = "HIGH"
	BugPriorityCritical BugPriority = "CRITICAL"
)

func (p BugPriority) IsValid() bool {
	switch p {
	case BugPriorityLow, BugPriorityMedium, BugPriorityHigh, BugPriorityCritical:
		return true
	default:
		return false
	}
}

// BugStatus is an ordered workflow label. No transition graph is
// enforced, backward moves included.
type BugStatus string

const (
	BugStatusTriage     BugStatus = "TRIAGE"
	BugStatusInProgress BugStatus = "IN_PROGRESS"
	BugStatusCodeReview BugStatus = "CODE_REVIEW"
	BugStatusQATesting  BugStatus = "QA_TESTING"
	BugStatusDeployed   BugStatus = "DEPLOYED"
)

func (s BugStatus) IsValid() bool {
	switch s {
	case BugStatusTriage, BugStatusInProgress, BugStatusCodeReview, BugStatusQATesting, BugStatusDeployed:
		return true
	default:
		return false
	}
}

type BugSource string

const (
	BugSourceCustomerReport  BugSource = "CUSTOMER_REPORT"
	BugSourceInternalQA      BugSource = "INTERNAL_QA"
	BugSourceAutomatedTest   BugSource = "AUTOMATED_TEST"
	BugSourceProductionAlert BugSource = "PRODUCTION_ALERT"
)

func (s BugSource) IsValid() bool {
	switch s {
	case BugSourceCustomerReport, BugSourceInternalQA, BugSourceAutomatedTest, BugSourceProductionAlert:
		return true
	default:
		return false
	}
}
