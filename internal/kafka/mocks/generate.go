//go:generate mockgen -source=../consumer.go          -destination=./mock_consumer.go          -package=mocks
//go:generate mockgen -source=../payment_publisher.go -destination=./mock_payment_publisher.go -package=mocks

package mocks
