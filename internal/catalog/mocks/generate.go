//go:generate mockgen -destination=./mock_gateway.go -package=mocks github.com/vmunix/sparkred/internal/catalog Gateway

package mocks
