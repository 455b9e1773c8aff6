package approval

import (
	"github.com/cockroachdb/errors"

	"github.com/bigsources/jobdesk/model/task"
)

// Operation names one backend mutation endpoint.
type Operation string

const (
	OperationApproveNewJob            Operation = "approve-new-job-posting"
	OperationApproveEditedJob         Operation = "approve-edited-job"
	OperationApproveJobClosing        Operation = "approve-job-closing"
	OperationApproveNewApplication    Operation = "approve-new-application"
	OperationApproveApplicationStatus Operation = "approve-application-status-change"
	OperationRejectNewJob             Operation = "reject-new-job-posting"
	OperationMarkPremium              Operation = "mark-job-premium"
)

// Operations lists every backend operation.
func Operations() []Operation {
	return []Operation{
		OperationApproveNewJob,
		OperationApproveEditedJob,
		OperationApproveJobClosing,
		OperationApproveNewApplication,
		OperationApproveApplicationStatus,
		OperationRejectNewJob,
		OperationMarkPremium,
	}
}

var (
	// ErrUnsupportedCategory is returned for a category outside the closed set.
	ErrUnsupportedCategory = errors.New("unsupported task category")
	// ErrRejectNotSupported is returned when a category has no reject endpoint.
	ErrRejectNotSupported = errors.New("reject is not supported for this category")
	// ErrUnknownAction is returned for an action other than approve or reject.
	ErrUnknownAction = errors.New("unknown action")
)

var approvals = map[task.Category]Operation{
	task.CategoryNewJob:            OperationApproveNewJob,
	task.CategoryEditJob:           OperationApproveEditedJob,
	task.CategoryClosedJob:         OperationApproveJobClosing,
	task.CategoryNewApplication:    OperationApproveNewApplication,
	task.CategoryApplicationStatus: OperationApproveApplicationStatus,
}

// Only new postings have a reject endpoint.
var rejections = map[task.Category]Operation{
	task.CategoryNewJob: OperationRejectNewJob,
}

// Resolve returns the operation for a category and action. Errors are
// contract errors raised before any endpoint is called.
func Resolve(category task.Category, action Action) (Operation, error) {
	if !category.Known() {
		return "", errors.Wrapf(ErrUnsupportedCategory, "category %q", category)
	}
	var table map[task.Category]Operation
	switch action {
	case ActionApprove:
		table = approvals
	case ActionReject:
		table = rejections
	default:
		return "", errors.Wrapf(ErrUnknownAction, "action %q", action)
	}
	op, ok := table[category]
	if !ok {
		if action == ActionReject {
			return "", errors.Wrapf(ErrRejectNotSupported, "category %q", category)
		}
		return "", errors.Wrapf(ErrUnsupportedCategory, "category %q has no %s operation", category, action)
	}
	return op, nil
}

// Actions returns the actions available for a category, approve first.
func Actions(category task.Category) []Action {
	var result []Action
	if _, ok := approvals[category]; ok {
		result = append(result, ActionApprove)
	}
	if _, ok := rejections[category]; ok {
		result = append(result, ActionReject)
	}
	return result
}
