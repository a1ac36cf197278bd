//go:generate mockgen -source=../session.go -destination=./mock_fetcher.go -package=mocks

package mocks
