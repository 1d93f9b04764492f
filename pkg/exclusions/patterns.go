package exclusions

// LargeBinaryPatterns are the builtin globs for files that should never
// enter a checkpoint: build output, dependency trees, media and archives.
// Workspace config can extend, never shrink, this set.
var LargeBinaryPatterns = []string{
	// Dependency and build trees
	"**/node_modules/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/venv/**",
	"**/target/debug/**",
	"**/target/release/**",
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/.gradle/**",
	"**/.next/**",
	"**/.nuxt/**",

	// Caches
	"**/.cache/**",
	"**/.pytest_cache/**",
	"**/.mypy_cache/**",
	"**/coverage/**",

	// Compiled objects and libraries
	"**/*.o",
	"**/*.a",
	"**/*.so",
	"**/*.dylib",
	"**/*.dll",
	"**/*.exe",
	"**/*.class",
	"**/*.jar",
	"**/*.war",
	"**/*.pyc",
	"**/*.wasm",

	// Archives
	"**/*.zip",
	"**/*.tar",
	"**/*.tar.gz",
	"**/*.tgz",
	"**/*.rar",
	"**/*.7z",
	"**/*.iso",

	// Media
	"**/*.png",
	"**/*.jpg",
	"**/*.jpeg",
	"**/*.gif",
	"**/*.bmp",
	"**/*.ico",
	"**/*.mp3",
	"**/*.mp4",
	"**/*.mov",
	"**/*.avi",
	"**/*.mkv",
	"**/*.wav",
	"**/*.flac",
	"**/*.pdf",
	"**/*.psd",

	// Databases and dumps
	"**/*.db",
	"**/*.sqlite",
	"**/*.sqlite3",
	"**/*.dmp",
	"**/*.bak",

	// Logs and temp
	"**/*.log",
	"**/*.tmp",
	"**/*.swp",
	"**/.DS_Store",
}
