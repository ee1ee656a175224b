package domain

const (
	FieldBucketName = "s3.bucket.name"
	FieldObjectKey  = "s3.object.key"
)

// Record identifies one uploaded object.
type Record struct {
	BucketName string `json:"bucketName"`
	ObjectKey  string `json:"objectKey"`
}

// Batch is an ordered set of records delivered by a single notification.
type Batch struct {
	Records []Record `json:"records"`
}

// Validate checks that the record at position index carries both fields.
func (r Record) Validate(index int) error {
	if r.BucketName == "" {
		return MalformedRecordError{Index: index, Field: FieldBucketName}
	}

	if r.ObjectKey == "" {
		return MalformedRecordError{Index: index, Field: FieldObjectKey}
	}

	return nil
}
