package config

var (
	// region Storage.

	// StorageBackend selects the client: "s3" uses the AWS SDK, "minio"
	// targets any S3-compatible endpoint.
	StorageBackend = NewKey("storage.backend",
		WithDefaultValue("s3"),
		WithAllowedStrings([]string{"s3", "minio"}))

	StorageRegion = NewKey("storage.region",
		WithDefaultValue("us-east-1"),
		WithValidString(),
		WithEnvAliases("AWS_DEFAULT_REGION", "AWS_REGION"))

	// StorageEndpoint overrides the service URL. Required for minio.
	StorageEndpoint = NewKey("storage.endpoint",
		WithDefaultValue(""),
		WithValidEndpoint())

	StorageAccessKey = NewKey("storage.accessKey",
		WithDefaultValue(""),
		WithValidString(),
		WithEnvAliases("AWS_ACCESS_KEY_ID"))

	StorageSecretKey = NewKey("storage.secretKey",
		WithDefaultValue(""),
		WithValidString(),
		WithEnvAliases("AWS_SECRET_ACCESS_KEY"))

	// StorageUseSSL applies to the minio backend only.
	StorageUseSSL = NewKey("storage.useSSL",
		WithDefaultValue(true),
		WithValidBool())

	// endregion.
)
