package project

import "github.com/sirupsen/logrus"

type refKind int

const (
	refCHR refKind = iota
	refMetatileSet
	refClass
	refClassField
)

func (k refKind) String() string {
	return [...]string{"chr", "metatile_set", "class", "class_field"}[k]
}

// renameRules lists every place that refers to an entity of each kind by
// name. Scope is the owning class for field renames.
var renameRules = map[refKind][]func(d *Document, scope, from, to string){
	refCHR: {
		func(d *Document, _, from, to string) {
			d.metatileSets.each(func(_ ID, ms *MetatileSet) {
				if ms.CHRName == from {
					ms.CHRName = to
				}
			})
		},
		func(d *Document, _, from, to string) {
			d.levels.each(func(_ ID, l *Level) {
				if l.CHRName == from {
					l.CHRName = to
				}
			})
		},
	},
	refMetatileSet: {
		func(d *Document, _, from, to string) {
			d.levels.each(func(_ ID, l *Level) {
				if l.MetatileSet == from {
					l.MetatileSet = to
				}
			})
		},
	},
	refClass: {
		func(d *Document, _, from, to string) {
			d.levels.each(func(_ ID, l *Level) { l.Objects.RenameClass(from, to) })
		},
	},
	refClassField: {
		func(d *Document, class, from, to string) {
			d.levels.each(func(_ ID, l *Level) { l.Objects.RenameField(class, from, to) })
		},
	},
}

func (d *Document) propagateRename(kind refKind, scope, from, to string) {
	if from == to {
		return
	}
	for _, rule := range renameRules[kind] {
		rule(d, scope, from, to)
	}
	d.log.WithFields(logrus.Fields{"kind": kind, "from": from, "to": to}).Debug("renamed")
}
