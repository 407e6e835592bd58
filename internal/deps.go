package internal

import (
	"greanix/footprint-api/internal/account"
	"greanix/footprint-api/internal/footprint"
	"greanix/footprint-api/internal/store"
	"greanix/footprint-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB         *gorm.DB
	Store      store.Store
	Sessions   *security.Sessions
	Accounts   *account.Service
	Footprints *footprint.Service

	// Marks the session cookie Secure, set when TLS is terminated by this process
	SecureCookies bool
}
