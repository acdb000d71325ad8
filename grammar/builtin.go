package grammar

// ---------------------------------------------------------------------------
// Built-in language type grammars
// ---------------------------------------------------------------------------

// URL accepts simple absolute URLs: a scheme, a dotted host, and an optional
// path. The host and path alphabets are deliberately strict so that quote
// characters, spaces and SQL metacharacters are not members of the language.
var URL = MustCompile("URL", `
start: scheme "://" host path?;
scheme: "http" | "https" | "ftp";
host: label ("." label)*;
label: [a-zA-Z0-9\-]+;
path: "/" segment ("/" segment)*;
segment: [a-zA-Z0-9_.\-]*;
`)

// Host accepts a dotted hostname on its own, matching the host part of URL.
var Host = MustCompile("Host", `
start: label ("." label)*;
label: [a-zA-Z0-9\-]+;
`)

// Email accepts a simplified mailbox address: dotted atoms, an at sign, and
// a dotted domain. It is a pragmatic subset of the RFC grammar, not a full
// implementation.
var Email = MustCompile("Email", `
start: local "@" domain;
local: atom ("." atom)*;
atom: [a-zA-Z0-9_+\-]+;
domain: dlabel ("." dlabel)*;
dlabel: [a-zA-Z0-9\-]+;
`)
