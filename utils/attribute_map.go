package utils

// AttributeMap holds the raw, untyped attributes of a configured resource.
type AttributeMap map[string]interface{}
