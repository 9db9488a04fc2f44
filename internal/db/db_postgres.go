package db

import (
	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresDriverID = "jackc/pgx/v5"
const postgresDriverName = "pgx"
