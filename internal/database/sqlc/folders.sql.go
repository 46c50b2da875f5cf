package sqldb

import "context"

const getLinkedFolder = `SELECT id, path, linked_at FROM linked_folder WHERE id = 1`

func (q *Queries) GetLinkedFolder(ctx context.Context) (LinkedFolder, error) {
	row := q.db.QueryRowContext(ctx, getLinkedFolder)
	var i LinkedFolder
	err := row.Scan(&i.ID, &i.Path, &i.LinkedAt)
	return i, err
}

const upsertLinkedFolder = `INSERT INTO linked_folder (id, path, linked_at)
VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    path = excluded.path,
    linked_at = excluded.linked_at`

type UpsertLinkedFolderParams struct {
	Path     string
	LinkedAt string
}

func (q *Queries) UpsertLinkedFolder(ctx context.Context, arg UpsertLinkedFolderParams) error {
	_, err := q.db.ExecContext(ctx, upsertLinkedFolder, arg.Path, arg.LinkedAt)
	return err
}

const deleteLinkedFolder = `DELETE FROM linked_folder`

func (q *Queries) DeleteLinkedFolder(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLinkedFolder)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
