//go:generate mockgen -source=../manager.go -destination=./mock_authenticator.go -package=mocks

package mocks
