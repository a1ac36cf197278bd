//go:generate mockgen -source=../repository.go -destination=./mock_repository.go -package=mocks

package mocks
