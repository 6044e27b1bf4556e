package rabbitmq

// QueueConfig описывает очередь и ключ, по которому она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Routing keys событий API.
const (
	KeyUserCreated = "user.created"
	KeyUserDeleted = "user.deleted"
	KeyCardCreated = "card.created"
	KeyCardDeleted = "card.deleted"
)

// GetEventQueues возвращает очереди, которые объявляются при старте.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "cards.users", RoutingKey: "user.*"},
		{QueueName: "cards.cards", RoutingKey: "card.*"},
	}
}
