// Package broker publishes JSON messages to a durable RabbitMQ queue.
//
// Messages go through the default exchange with the queue name as routing key
// and are marked persistent. A disabled broker yields a publisher that drops
// everything, so callers never branch on configuration.
package broker
