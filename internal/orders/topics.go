package orders

import "strconv"

const (
	TopicOfferCreated       = "offer.created"
	TopicOfferArchived      = "offer.archived"
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

// Partition key = offer id, so every event of one offer and its orders
// keeps its order.
func PartitionKey(offerID int64) []byte { return []byte(strconv.FormatInt(offerID, 10)) }
