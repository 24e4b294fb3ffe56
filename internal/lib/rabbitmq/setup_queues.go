package rabbitmq

// SubscriptionsExchange - обменник событий жизненного цикла подписок.
const SubscriptionsExchange = "subscriptions"

const (
	RoutingKeyRenewed = "subscription.renewed"
	RoutingKeyExpired = "subscription.expired"
)

// QueueConfig описывает очередь и ключ маршрутизации, по которому она
// привязана к SubscriptionsExchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetSubscriptionQueues возвращает очереди событий продления и истечения.
func GetSubscriptionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscriptions.renewed", RoutingKey: RoutingKeyRenewed},
		{QueueName: "subscriptions.expired", RoutingKey: RoutingKeyExpired},
	}
}
