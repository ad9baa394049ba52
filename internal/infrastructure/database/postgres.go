package database

import (
	"fmt"
	"log"

	"github.com/dukaanlabs/dukaan-api/internal/config"
	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// TranslateError maps unique violations to gorm.ErrDuplicatedKey,
		// which the order number retry loop depends on
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Identity entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.Tenant{},
		&entity.TenantMembership{},

		// Catalog entities
		&entity.Product{},
		&entity.ProductVariant{},
		&entity.RawMaterial{},
		&entity.ProductMaterial{},

		// Pricing entities
		&entity.TaxSetting{},
		&entity.Coupon{},
		&entity.DiscountRule{},

		// Transaction entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Refund{},
		&entity.RefundItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions,
// admin user and their tenant)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default permissions
	permissions := []entity.Permission{
		{Name: "manage-products"},
		{Name: "manage-sales"},
		{Name: "manage-users"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	// Create admin role with all permissions
	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		adminRole = entity.Role{
			Name:        "admin",
			Permissions: allPermissions,
		}
		if err := db.Create(&adminRole).Error; err != nil {
			log.Printf("Warning: failed to create admin role: %v", err)
		}
	}

	// Create cashier role limited to selling
	cashierPermissions := []string{"manage-sales"}
	var cashierPerms []entity.Permission
	for _, name := range cashierPermissions {
		for _, p := range allPermissions {
			if p.Name == name {
				cashierPerms = append(cashierPerms, p)
				break
			}
		}
	}

	var cashierRole entity.Role
	if err := db.Where("name = ?", "cashier").First(&cashierRole).Error; err != nil {
		cashierRole = entity.Role{
			Name:        "cashier",
			Permissions: cashierPerms,
		}
		if err := db.Create(&cashierRole).Error; err != nil {
			log.Printf("Warning: failed to create cashier role: %v", err)
		}
	}

	// Create admin user and their tenant if configured
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")
	tenantName := viper.GetString("TENANT_NAME")
	tenantSlug := viper.GetString("TENANT_SLUG")

	if adminEmail == "" || adminPassword == "" {
		log.Println("Default data seeding completed")
		return nil
	}

	var adminUser entity.User
	if err := db.Where("email = ?", adminEmail).First(&adminUser).Error; err != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Warning: failed to hash admin password: %v", err)
			return nil
		}
		if adminName == "" {
			adminName = "Admin"
		}
		firstName := adminName
		lastName := ""
		for i, c := range adminName {
			if c == ' ' {
				firstName = adminName[:i]
				lastName = adminName[i+1:]
				break
			}
		}
		var role entity.Role
		if err := db.Where("name = ?", "admin").First(&role).Error; err != nil {
			log.Printf("Warning: admin role missing, skipping admin user: %v", err)
			return nil
		}
		adminUser = entity.User{
			ID:        uuid.New(),
			FirstName: firstName,
			LastName:  lastName,
			Email:     adminEmail,
			Password:  string(hashedPassword),
			Roles:     []entity.Role{role},
		}
		if err := db.Create(&adminUser).Error; err != nil {
			log.Printf("Warning: failed to create admin user: %v", err)
			return nil
		}
		log.Printf("Admin user created: %s", adminEmail)
	} else {
		log.Printf("Admin user already exists: %s", adminEmail)
	}

	if tenantSlug == "" {
		log.Println("Default data seeding completed")
		return nil
	}

	var tenant entity.Tenant
	if err := db.Where("slug = ?", tenantSlug).First(&tenant).Error; err != nil {
		if tenantName == "" {
			tenantName = tenantSlug
		}
		tenant = entity.Tenant{
			ID:      uuid.New(),
			Name:    tenantName,
			Slug:    tenantSlug,
			OwnerID: adminUser.ID,
		}
		if err := db.Create(&tenant).Error; err != nil {
			log.Printf("Warning: failed to create tenant: %v", err)
			return nil
		}
		log.Printf("Tenant created: %s", tenantSlug)

		// Every tenant starts with a default tax so checkouts have a regime
		tax := entity.TaxSetting{
			TenantID:  tenant.ID,
			Name:      "Standard",
			Percent:   decimal.NewFromInt(0),
			IsDefault: true,
		}
		if err := db.Create(&tax).Error; err != nil {
			log.Printf("Warning: failed to create default tax setting: %v", err)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
