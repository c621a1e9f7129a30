package smartcache

import (
	"github.com/hyp3rd/smartcache/pkg/pipeline"
)

// shadowCopyHook captures a snapshot of every document handed out by get, so
// a later update of the same key can diff its indexed fields. The caller
// receives the live result; the snapshot is a clone and never aliases it.
func (c *Cache) shadowCopyHook(pctx *pipeline.Context) error {
	if !c.shadowCopies || pctx.Result == nil {
		return nil
	}

	pk := pctx.Key
	if fromDoc, ok := pctx.Result.PrimaryKey(c.primaryKey); ok {
		pk = fromDoc
	}

	c.storeShadow(pctx.Store, pk, pctx.Result.Clone())

	return nil
}

// indexInsertHook indexes the freshly stored document in every table covering
// the store. Set may overwrite an existing key, so each table relocates the
// primary key when its composite value moved. The snapshot is refreshed so a
// follow-up update reconciles against what was just written.
func (c *Cache) indexInsertHook(pctx *pipeline.Context) error {
	for _, table := range c.indexes.TablesFor(pctx.Store) {
		err := table.Insert(pctx.Store, pctx.Key, pctx.Value)
		if err != nil {
			return err
		}
	}

	c.statsCollector.Incr(statIndexInsert, 1)
	c.storeShadow(pctx.Store, pctx.Key, pctx.Value.Clone())

	return nil
}

// indexReconcileHook diffs the updated document against the last snapshot and
// relocates index entries whose composite value changed. Without a snapshot
// there is nothing to diff against and the tables are left untouched.
func (c *Cache) indexReconcileHook(pctx *pipeline.Context) error {
	old := c.takeShadow(pctx.Store, pctx.Key)
	if old == nil {
		c.statsCollector.Incr(statReconcileSkipped, 1)

		return nil
	}

	for _, table := range c.indexes.TablesFor(pctx.Store) {
		_, err := table.Reconcile(pctx.Store, pctx.Key, old, pctx.Value)
		if err != nil {
			return err
		}
	}

	c.statsCollector.Incr(statIndexReconcile, 1)
	c.storeShadow(pctx.Store, pctx.Key, pctx.Value.Clone())

	return nil
}

// indexRemoveHook drops the deleted key from every table covering the store
// and discards its snapshot.
func (c *Cache) indexRemoveHook(pctx *pipeline.Context) error {
	for _, table := range c.indexes.TablesFor(pctx.Store) {
		table.Remove(pctx.Store, pctx.Key)
	}

	c.dropShadow(pctx.Store, pctx.Key)
	c.statsCollector.Incr(statIndexRemove, 1)

	return nil
}
