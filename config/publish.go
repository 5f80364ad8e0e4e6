package config

var (
	// region Publish.

	// PublishRoot is the directory holding the built site.
	PublishRoot = NewKey("publish.root",
		WithDefaultValue("_site"),
		WithValidString())

	// PublishPrefix is the namespace inside the bucket. Objects are stored
	// under "<prefix>/<path>".
	PublishPrefix = NewKey("publish.prefix",
		WithDefaultValue(""),
		WithValidString(),
		WithEnvAliases("SITE_PREFIX"))

	// PublishBucket is the destination bucket.
	PublishBucket = NewKey("publish.bucket",
		WithDefaultValue(""),
		WithValidString(),
		WithEnvAliases("BUCKET"))

	// PublishCacheControl is sent as Cache-Control with every upload.
	PublishCacheControl = NewKey("publish.cacheControl",
		WithDefaultValue(""),
		WithValidString(),
		WithEnvAliases("CACHE_CONTROL"))

	// PublishExclude lists doublestar patterns of site paths that are never
	// published. Excluded paths that already exist remotely are deleted.
	PublishExclude = NewKey("publish.exclude",
		WithDefaultValue([]string{}),
		WithValidStringSlice(),
		WithValidGlobs())

	// PublishConcurrency bounds parallel reads, uploads and deletes.
	PublishConcurrency = NewKey("publish.concurrency",
		WithDefaultValue(1),
		WithValidPositiveInt())

	// PublishRetries is how many times a failed storage call is retried.
	PublishRetries = NewKey("publish.retries",
		WithDefaultValue(0),
		WithValidPositiveInt())

	// PublishContinueOnError keeps applying the plan after a failure and
	// reports every error at the end. Deletes still require all uploads to
	// succeed.
	PublishContinueOnError = NewKey("publish.continueOnError",
		WithDefaultValue(false),
		WithValidBool())

	// PublishDetectContentType sniffs the body when the extension has no
	// registered MIME type.
	PublishDetectContentType = NewKey("publish.detectContentType",
		WithDefaultValue(false),
		WithValidBool())

	// PublishStageDir, when set, receives a copy of every normalized file.
	PublishStageDir = NewKey("publish.stageDir",
		WithDefaultValue(""),
		WithValidString())

	// PublishDryRun computes and logs the plan without changing the bucket.
	PublishDryRun = NewKey("publish.dryRun",
		WithDefaultValue(false),
		WithValidBool())

	// endregion.
)
