package models

// InstanceRecord represents one EC2 instance carrying the scheduling tag
type InstanceRecord struct {
	ID       string
	TagValue string
	Tags     map[string]string
}

// Name returns the value of the instance's Name tag, if any
func (r InstanceRecord) Name() string {
	return r.Tags["Name"]
}
