package dict

import (
	"go.uber.org/zap"

	"github.com/benz9527/xdict/lib/tree"
	"github.com/benz9527/xdict/xlog"
)

type xDict struct {
	tree   tree.RBTree
	logger xlog.XLogger
}

func keyCompare(i, j uint64) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}

func (d *xDict) Len() int64 {
	return d.tree.Len()
}

func (d *xDict) AddOrUpdate(key uint64, val string) bool {
	updated := d.tree.Insert(key, val)
	if d.logger != nil {
		if updated {
			d.logger.Debug("dict update", zap.Uint64("key", key))
		} else {
			d.logger.Debug("dict add", zap.Uint64("key", key), zap.Int64("len", d.tree.Len()))
		}
	}
	return !updated
}

func (d *xDict) Get(key uint64) (string, bool) {
	node := d.tree.Search(d.tree.Root(), func(node tree.RBNode) int64 {
		return keyCompare(key, node.Key())
	})
	if node == nil {
		return "", false
	}
	return node.Val(), true
}

func (d *xDict) Contains(key uint64) bool {
	_, ok := d.Get(key)
	return ok
}

func (d *xDict) Delete(key uint64) bool {
	_, removed := d.tree.Remove(key)
	if d.logger != nil && removed {
		d.logger.Debug("dict delete", zap.Uint64("key", key), zap.Int64("len", d.tree.Len()))
	}
	return removed
}

func (d *xDict) Purge() {
	d.tree.Release()
	if d.logger != nil {
		d.logger.Debug("dict purge")
	}
}

type DictOpt func(*xDict)

// WithDictLogger enables structural tracing at debug level. Tracing is
// disabled by default and has no effect on the operations themselves.
func WithDictLogger(logger xlog.XLogger) DictOpt {
	return func(d *xDict) {
		d.logger = logger
	}
}

// New returns an empty dictionary.
func New(opts ...DictOpt) NumberStringDict {
	d := &xDict{
		tree: tree.NewRBTree(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}
