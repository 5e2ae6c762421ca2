package common

// Collection names in the remote document store. The store itself is
// schema-free; these names are the only contract between components.
const (
	CollectionPosts = "posts"
	CollectionUsers = "users"
	CollectionLikes = "likes"
)
