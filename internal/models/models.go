package models

// Item is the single entity stored in DynamoDB. The (PartitionKey, ItemID)
// pair uniquely identifies an item; CreatedAt is overwritten on every write.
type Item struct {
	PartitionKey string `json:"partition_key" dynamodbav:"partition_key"`
	ItemID       string `json:"item_id" dynamodbav:"item_id"`
	Payload      string `json:"payload" dynamodbav:"payload"`
	CreatedAt    string `json:"created_at" dynamodbav:"created_at"`
}

type CreateItemRequest struct {
	PartitionKey string `json:"partition_key"`
	Payload      string `json:"payload"`
}

type UpdateItemRequest struct {
	PartitionKey string `json:"partition_key"`
	ItemID       string `json:"item_id"`
	Payload      string `json:"payload"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type WriteKeyCreds struct {
	WriteAPIKey string `json:"WRITE_API_KEY"`
}
