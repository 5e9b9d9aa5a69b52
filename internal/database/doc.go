// Package database opens the PlaceBook SQLite database and migrates its
// schema. Table access lives in the sub-packages.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── bookmarks/       # Bookmark records and change observation
//	├── users/           # Local-auth accounts
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./placebook.db")
//
//	store := bookmarks.NewRepository(db.DB)
//	id, err := store.Insert(ctx, bookmark)
//
//	updates, err := store.Observe(ctx, id)
//	for b := range updates {
//		// b is nil once the bookmark has been deleted
//	}
//
// # Adding a Table
//
// New tables get their own sub-package holding a gorm-backed Repository
// built by NewRepository(*gorm.DB). The entity is added to the AutoMigrate
// list in NewDatabase, and the consumer's interface gets a compile-time
// check in internal/interfaces.
package database
