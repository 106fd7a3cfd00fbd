package config

import (
	"runtime"

	"github.com/pders01/git-pages/internal/storage"
	"github.com/spf13/viper"
)

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("bucket.name", "")
	v.SetDefault("bucket.region", "")
	v.SetDefault("bucket.endpoint", "")
	v.SetDefault("bucket.path_style", false)
	v.SetDefault("output.dir", "gen")
	v.SetDefault("output.all_dir", "generated_html")
	v.SetDefault("generate.workers", runtime.NumCPU())
	v.SetDefault("generate.flat", false)
	v.SetDefault("highlight.style", "github")
	v.SetDefault("highlight.line_numbers", true)

	// The bucket used to come from the environment only
	v.BindEnv("bucket.name", "GIT_BUCKET_NAME")
}

// GetBucket returns the S3 settings
func GetBucket() storage.S3Config {
	return storage.S3Config{
		Bucket:    viper.GetString("bucket.name"),
		Region:    viper.GetString("bucket.region"),
		Endpoint:  viper.GetString("bucket.endpoint"),
		PathStyle: viper.GetBool("bucket.path_style"),
	}
}

// GetOutputDir returns the site directory for single-repo generation
func GetOutputDir() string {
	return viper.GetString("output.dir")
}

// GetAllOutputDir returns the parent directory for bucket-wide generation
func GetAllOutputDir() string {
	return viper.GetString("output.all_dir")
}

// GetWorkers returns the page emission concurrency, at least 1
func GetWorkers() int {
	if n := viper.GetInt("generate.workers"); n > 0 {
		return n
	}
	return 1
}

// GetFlat reports whether the index should be a flat list
func GetFlat() bool {
	return viper.GetBool("generate.flat")
}

// GetHighlightStyle returns the chroma style name
func GetHighlightStyle() string {
	return viper.GetString("highlight.style")
}

// GetLineNumbers reports whether file pages show line numbers
func GetLineNumbers() bool {
	return viper.GetBool("highlight.line_numbers")
}
