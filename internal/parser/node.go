package parser

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lookup returns the value of key in a mapping node.
func Lookup(node *yaml.Node, key string) (*yaml.Node, bool) {
	node = Deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return Deref(node.Content[i+1]), true
		}
	}
	return nil, false
}

// ResolvePointer walks a JSON pointer ("" is the root) from root.
func ResolvePointer(root *yaml.Node, pointer string) (*yaml.Node, bool) {
	if pointer == "" {
		return Deref(root), root != nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}

	current := root
	for _, token := range strings.Split(pointer[1:], "/") {
		token = unescapeToken(token)
		current = Deref(current)
		switch {
		case current == nil:
			return nil, false
		case current.Kind == yaml.MappingNode:
			next, ok := Lookup(current, token)
			if !ok {
				return nil, false
			}
			current = next
		case current.Kind == yaml.SequenceNode:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(current.Content) {
				return nil, false
			}
			current = current.Content[index]
		default:
			return nil, false
		}
	}
	return Deref(current), true
}

// Deref follows yaml aliases.
func Deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// EscapeToken escapes a key for use as a JSON pointer token.
func EscapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

func unescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}
