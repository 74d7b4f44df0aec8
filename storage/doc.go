// Package storage persists run outputs through a pluggable object store.
//
// Backends register themselves by provider name; import the backend package
// for its side effect before calling New:
//
//	import _ "github.com/kbukum/podscribe/storage/local"
//	import _ "github.com/kbukum/podscribe/storage/s3"
//
// # Configuration
//
//	output:
//	  storage:
//	    provider: "s3"
//	    bucket: "transcripts"
//	    region: "us-east-1"
//	    prefix: "podscribe/"
package storage
