package store

// Keyspace layout. Primary records live under "type:id"; secondary indexes
// live under "idx:" and hold either the target ID or an empty value when the
// key itself carries everything.
const (
	userPrefix           = "user:"
	userByUsernamePrefix = "idx:users:username:" // login lookups, case-sensitive

	sessionPrefix        = "session:"
	sessionByTokenPrefix = "idx:sessions:token:" // token-hash lookups
	sessionByUserPrefix  = "idx:sessions:user:"  // listing a user's sessions

	folderPrefix       = "folder:"
	folderByUserPrefix = "idx:folders:user:" // listing a user's folders

	notePrefix             = "note:"
	noteByUserPrefix       = "idx:notes:user:"   // listing a user's notes
	noteByFolderPrefix     = "idx:notes:folder:" // folder-scoped listing and cascade
	notePinnedByUserPrefix = "idx:notes:pinned:" // present only while the note is pinned
)
