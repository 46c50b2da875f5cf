package sqldb

import "context"

const deleteAllScripts = `DELETE FROM scripts`

func (q *Queries) DeleteAllScripts(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllScripts)
	return err
}

const deleteSettings = `DELETE FROM vault_settings`

func (q *Queries) DeleteSettings(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteSettings)
	return err
}
