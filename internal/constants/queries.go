package constants

const (
	// ListDiscountMatrix joins every discount row with its lookup names.
	ListDiscountMatrix = `
	SELECT d.id, d.complex_id, c.name AS complex_name,
	       d.type_id, t.name AS type_name,
	       d.payment_type_id, p.name AS payment_type_name,
	       d.mpp_discount, d.opt_discount, d.kd_discount
	FROM discount_objects d
	JOIN complexes c ON c.id = d.complex_id
	JOIN property_types t ON t.id = d.type_id
	JOIN payment_types p ON p.id = d.payment_type_id
	ORDER BY c.name, t.name, p.name
	`

	ListDiscountMatrixForComplex = `
	SELECT d.id, d.complex_id, c.name AS complex_name,
	       d.type_id, t.name AS type_name,
	       d.payment_type_id, p.name AS payment_type_name,
	       d.mpp_discount, d.opt_discount, d.kd_discount
	FROM discount_objects d
	JOIN complexes c ON c.id = d.complex_id
	JOIN property_types t ON t.id = d.type_id
	JOIN payment_types p ON p.id = d.payment_type_id
	WHERE d.complex_id = ?
	ORDER BY t.name, p.name
	`

	PingQuery = `SELECT 1`
)
