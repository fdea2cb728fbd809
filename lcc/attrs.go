package lcc

import "strings"

const attrsBase = `{"spawnPoint":{"position":[0,0,0],"rotation":[0.7071068,0,0,0.7071068]},"transform":{"position":[0,0,0],"rotation":[0,0,0,1],"scale":[1,1,1]}}`

const colliderClause = `,"collider":{"simpleMesh":{"type":"ply","path":"collision.lci"}}`

// WriteAttrs renders attrs.lcp: the fixed spawn/transform object, with
// a collider clause appended iff a collision file was written and a
// poses clause appended iff a poses reference was supplied.
func WriteAttrs(hasCollision bool, posesPath string) string {
	var b strings.Builder
	b.WriteString(attrsBase[:len(attrsBase)-1]) // drop closing brace, reopen below
	if hasCollision {
		b.WriteString(colliderClause)
	}
	if posesPath != "" {
		b.WriteString(`,"poses":{"path":"`)
		b.WriteString(posesPath)
		b.WriteString(`"}`)
	}
	b.WriteString("}")
	b.WriteString("\n")
	return b.String()
}
