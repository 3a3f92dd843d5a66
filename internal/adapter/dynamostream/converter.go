// Package dynamostream decodes DynamoDB stream images written by dynamorepo
package dynamostream

import (
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// ConvertToMessage converts a DynamoDB NewImage map to a Message.
// Properties are recomputed from the content rather than trusted from the image.
func ConvertToMessage(newImage map[string]events.DynamoDBAttributeValue) (*model.Message, error) {
	if newImage == nil {
		return nil, fmt.Errorf("newImage is nil")
	}

	msg := &model.Message{}

	// ID comes from pk
	msg.ID = ExtractStringAttribute(newImage, "pk")
	if msg.ID == "" {
		return nil, fmt.Errorf("missing required field: ID (pk)")
	}

	content, ok := newImage["Content"]
	if !ok || content.DataType() != events.DataTypeString {
		return nil, fmt.Errorf("missing required field: Content")
	}
	msg.Content = content.String()

	var err error
	if msg.DateCreated, err = extractTime(newImage, "DateCreated"); err != nil {
		return nil, err
	}
	if msg.DateModified, err = extractTime(newImage, "DateModified"); err != nil {
		return nil, err
	}

	msg.Properties = model.ComputeProperties(msg.Content)
	return msg, nil
}

// extractTime parses an RFC3339 timestamp attribute as written by attributevalue
func extractTime(attrs map[string]events.DynamoDBAttributeValue, key string) (time.Time, error) {
	raw := ExtractStringAttribute(attrs, key)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing required field: %s", key)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return t.UTC(), nil
}

// ExtractStringAttribute extracts a string value from DynamoDB attribute map
func ExtractStringAttribute(attrs map[string]events.DynamoDBAttributeValue, key string) string {
	if attr, ok := attrs[key]; ok {
		if attr.DataType() == events.DataTypeString {
			return attr.String()
		}
	}
	return ""
}
