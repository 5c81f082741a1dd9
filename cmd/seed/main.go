package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"docspace/internal/app"
	"docspace/internal/config"
	models "docspace/internal/domain/models/hierarchy"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/service/hierarchy"
	"docspace/internal/repository/postgres"
	"docspace/internal/tenancy"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	tenantID := flag.String("tenant", "demo-tenant", "Tenant to seed")
	userID := flag.String("user", "demo-user", "User recorded as creator (room owner)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: --drop-tables is not allowed in production")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	if cfg.Storage == "postgres" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if *dropTables {
			log.Println("Dropping all tables...")
			if err := postgres.DropSchema(ctx, pool, tables); err != nil {
				log.Fatalf("Failed to drop tables: %v", err)
			}
		}
		if err := postgres.EnsureSchema(ctx, pool, tables, logger); err != nil {
			log.Fatalf("Failed to run schema: %v", err)
		}
		pool.Close()
		if *schemaOnly {
			log.Println("Schema setup complete (schema-only mode)")
			return
		}
	}

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	ctx = tenancy.WithUser(tenancy.WithTenant(ctx, *tenantID), *userID)
	if err := seed(ctx, application.Service); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeding complete (tenant: %s, prefix: %s)", *tenantID, cfg.TablePrefix)
}

type seedFolder struct {
	title    string
	files    map[string]int64
	children []seedFolder
}

var demoRooms = []struct {
	title      string
	folderType models.FolderType
	tree       []seedFolder
}{
	{
		title:      "Product",
		folderType: models.FolderTypeEditingRoom,
		tree: []seedFolder{
			{title: "Specs", files: map[string]int64{"roadmap.docx": 48_000, "pricing.xlsx": 22_000}, children: []seedFolder{
				{title: "Archive", files: map[string]int64{"v1-draft.docx": 31_000}},
			}},
			{title: "Design", files: map[string]int64{"wireframes.pdf": 1_200_000}},
		},
	},
	{
		title:      "Deal room",
		folderType: models.FolderTypeVirtualDataRoom,
		tree: []seedFolder{
			{title: "Contracts", files: map[string]int64{"nda.pdf": 90_000, "msa.pdf": 140_000}},
			{title: "Financials", files: map[string]int64{"q1.xlsx": 60_000}},
		},
	},
}

func seed(ctx context.Context, svc hierarchy.Service) error {
	for _, r := range demoRooms {
		room, err := svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{Title: r.title, FolderType: r.folderType})
		if err != nil {
			return err
		}
		log.Printf("Created room %q (%s)", room.Title, room.ID)
		if err := seedTree(ctx, svc, room.ID, r.tree); err != nil {
			return err
		}
	}
	return nil
}

func seedTree(ctx context.Context, svc hierarchy.Service, parentID string, folders []seedFolder) error {
	for _, f := range folders {
		folder, err := svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: parentID, Title: f.title})
		if err != nil {
			return err
		}
		for title, size := range f.files {
			file, err := svc.CreateFile(ctx, &hierarchySvc.CreateFileRequest{FolderID: folder.ID, Title: title, ContentLength: size})
			if err != nil {
				return err
			}
			// a second revision so version history is non-trivial
			if _, err := svc.AddFileVersion(ctx, &hierarchySvc.AddVersionRequest{FileID: file.ID, ContentLength: size + size/10, Comment: "revised"}); err != nil {
				return err
			}
		}
		if err := seedTree(ctx, svc, folder.ID, f.children); err != nil {
			return err
		}
	}
	return nil
}
