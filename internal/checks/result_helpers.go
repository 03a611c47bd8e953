package checks

func NewResult(checkID string, status Status, message string) Result {
	res := Result{
		CheckID: checkID,
		Status:  status,
	}
	if message != "" {
		res.Message = message
	}
	return res
}

func PassResult(checkID string) Result {
	return NewResult(checkID, StatusPass, "")
}

func PassResultWithMessage(checkID, message string) Result {
	return NewResult(checkID, StatusPass, message)
}

func FailResult(checkID, message string) Result {
	return NewResult(checkID, StatusFail, message)
}

func ErrorResult(checkID, message string) Result {
	return NewResult(checkID, StatusError, message)
}

func SkippedResult(checkID, message string) Result {
	return NewResult(checkID, StatusSkipped, message)
}
