package domain

import "time"

// Notification names one object whose creation triggered a stage.
type Notification struct {
	EventName string    `json:"eventName,omitempty"`
	EventTime time.Time `json:"eventTime,omitempty"`
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size,omitempty"`
}

func (n Notification) Ref() ObjectRef {
	return ObjectRef{Bucket: n.Bucket, Key: n.Key}
}

type Batch []Notification

type SuccessfulOp struct {
	Stage   string                 `json:"stage,omitempty"`
	Record  Notification           `json:"Record"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type FailedOp struct {
	Stage   string                 `json:"stage,omitempty"`
	Error   string                 `json:"error"`
	Record  Notification           `json:"Record"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// BatchReport is returned with a success status even when FailedOps is not empty.
type BatchReport struct {
	SuccessfulOps []SuccessfulOp `json:"SuccessfulOps"`
	FailedOps     []FailedOp     `json:"FailedOps"`
}

func NewBatchReport() BatchReport {
	return BatchReport{
		SuccessfulOps: make([]SuccessfulOp, 0),
		FailedOps:     make([]FailedOp, 0),
	}
}

func (r *BatchReport) Merge(other BatchReport) {
	r.SuccessfulOps = append(r.SuccessfulOps, other.SuccessfulOps...)
	r.FailedOps = append(r.FailedOps, other.FailedOps...)
}
