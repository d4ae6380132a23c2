package types

import (
	"encoding/hex"
	"regexp"
	"slices"
	"strings"

	"github.com/crytic/medusa-geth/crypto"
	"golang.org/x/exp/maps"
)

// LinkReferences maps unit name -> library name -> the positions in bytecode where the library address is expected.
type LinkReferences map[string]map[string][]LinkReference

// LinkReference is a byte range (in bytes, not hex characters) occupied by a library placeholder.
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// placeholderExp matches both the current "__$<hash>$__" placeholder format and the legacy "__<name>__" one.
var placeholderExp = regexp.MustCompile(`__(\$[0-9a-fA-F]*\$|\w*?)__`)

// GenerateLibraryPlaceholder creates a library placeholder hash based on the keccak256 hash of the fully qualified
// library name ("<unit>:<library>") according to Solidity's algorithm.
func GenerateLibraryPlaceholder(fullyQualifiedName string) string {
	hash := crypto.Keccak256Hash([]byte(fullyQualifiedName))
	return hex.EncodeToString(hash.Bytes())[:LibraryPlaceholderHashLength]
}

// ParseBytecodeForPlaceholders returns the set of unique placeholder identifiers found in the hex bytecode, with the
// surrounding "__" and "$" delimiters removed.
func ParseBytecodeForPlaceholders(bytecode string) []string {
	found := make(map[string]struct{})
	for _, match := range placeholderExp.FindAllString(bytecode, -1) {
		id := strings.ReplaceAll(strings.Trim(match, "_"), "$", "")
		if id != "" {
			found[id] = struct{}{}
		}
	}
	ids := maps.Keys(found)
	slices.Sort(ids)
	return ids
}

// LibraryPlaceholders maps each placeholder hash expected in the bytecode to the fully qualified name of the library
// it stands for.
func (l LinkReferences) LibraryPlaceholders() map[string]string {
	placeholders := make(map[string]string)
	for unit, libraries := range l {
		for library := range libraries {
			fullyQualifiedName := unit + ":" + library
			placeholders[GenerateLibraryPlaceholder(fullyQualifiedName)] = fullyQualifiedName
		}
	}
	return placeholders
}

// Libraries returns the sorted fully qualified names of every referenced library.
func (l LinkReferences) Libraries() []string {
	libraries := maps.Values(l.LibraryPlaceholders())
	slices.Sort(libraries)
	return libraries
}

// UnresolvedPlaceholders returns the placeholders present in the artifact's deployment bytecode that are not explained
// by its link references. A non-empty result means the artifact cannot be linked from its own metadata.
func (a *CompiledArtifact) UnresolvedPlaceholders() []string {
	known := a.LinkReferences.LibraryPlaceholders()
	var unresolved []string
	for _, id := range ParseBytecodeForPlaceholders(a.Code) {
		if _, ok := known[id]; !ok {
			unresolved = append(unresolved, id)
		}
	}
	return unresolved
}
