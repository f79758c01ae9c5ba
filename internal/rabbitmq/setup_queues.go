package rabbitmq

// QueueConfig описывает очередь и ключи, с которыми она привязана к обменнику.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// AnalyticsQueues возвращает очереди конвейера аналитики.
func AnalyticsQueues(queueName string) []QueueConfig {
	return []QueueConfig{
		{QueueName: queueName, RoutingKeys: []string{"api_call", "identify"}},
	}
}
