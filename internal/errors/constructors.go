package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found: "+path).
		WithContext("path", path)
}

func ConfigInvalid(field, reason string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration: "+field+": "+reason).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Validation errors

func DuplicateSlug(slug, first, second string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "duplicate slug "+quote(slug)+" in "+first+" and "+second).
		WithContext("slug", slug).
		WithContext("first", first).
		WithContext("second", second)
}

// Pipeline errors

// ParseFailed reports a malformed or missing front matter block.
func ParseFailed(source, reason string, cause error) *BuildError {
	return Wrap(cause, CategoryParse, SeverityFatal, "cannot parse "+quote(source)+": "+reason).
		WithContext("source", source)
}

// CompileFailed reports a document compiler or component render failure.
func CompileFailed(target string, cause error) *BuildError {
	return Wrap(cause, CategoryCompile, SeverityFatal, "cannot compile "+quote(target)).
		WithContext("target", target)
}

// PathEscapes reports an output path that resolves outside the output root.
func PathEscapes(path, outputRoot string) *BuildError {
	return New(CategoryPathSafety, SeverityFatal, "file path outside output directory: "+path).
		WithContext("path", path).
		WithContext("output_root", outputRoot)
}

func IOFailed(operation, path string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" "+quote(path)).
		WithContext("operation", operation).
		WithContext("path", path)
}

func Canceled(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryCanceled, SeverityFatal, "build canceled").
		WithContext("stage", stage)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}

func quote(s string) string { return "\"" + s + "\"" }
