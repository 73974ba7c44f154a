package allowlist

// Default is the compiled-in kernel command line allow-list.
// Every entry here is a token the untrusted runtime command line may pass to
// the kernel under secure boot. Treat edits as security policy changes.
var Default = Table{
	Prefix("console="),
	Prefix("root=soci:"),
	Exact("root=atomix"),
	Exact("ro"),
	Exact("quiet"),
	Exact("verbose"),
	Exact("crashkernel=256M"),
}
