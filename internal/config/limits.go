package config

const (
	// MaxFolderTitleLength is the maximum length for folder and room titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderTitleLength = 255

	// MaxFileTitleLength is the maximum length for file titles.
	// Same as folder titles for consistency.
	MaxFileTitleLength = 255

	// MaxCommentLength is the maximum length of a version comment.
	MaxCommentLength = 1024

	// MaxPurgeBatch caps how many trashed folders one purge run deletes.
	// Remaining folders are picked up by the next run.
	MaxPurgeBatch = 500
)
