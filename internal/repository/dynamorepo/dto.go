package dynamorepo

import (
	"time"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// DynamoDTO represents the persistence layer DTO for DynamoDB.
// The table has a single string partition key "pk" holding the message ID;
// derived properties are stored as an embedded map.
type DynamoDTO struct {
	PK           string           `dynamodbav:"pk"` // Partition Key - maps from ID
	Content      string           `dynamodbav:"Content"`
	DateCreated  time.Time        `dynamodbav:"DateCreated"`
	DateModified time.Time        `dynamodbav:"DateModified"`
	Properties   model.Properties `dynamodbav:"Properties"`
}

// ToDomain converts a DynamoDTO to a domain model Message
func (dto *DynamoDTO) ToDomain() *model.Message {
	return &model.Message{
		ID:           dto.PK,
		Content:      dto.Content,
		DateCreated:  dto.DateCreated.UTC(),
		DateModified: dto.DateModified.UTC(),
		Properties:   dto.Properties,
	}
}

// FromDomain creates a DynamoDTO from a domain model Message
func FromDomain(msg *model.Message) *DynamoDTO {
	return &DynamoDTO{
		PK:           msg.ID,
		Content:      msg.Content,
		DateCreated:  msg.DateCreated,
		DateModified: msg.DateModified,
		Properties:   msg.Properties,
	}
}

// ToDomainList converts a slice of DynamoDTOs to domain model Messages
func ToDomainList(dtos []*DynamoDTO) []*model.Message {
	msgs := make([]*model.Message, len(dtos))
	for i, dto := range dtos {
		msgs[i] = dto.ToDomain()
	}
	return msgs
}
