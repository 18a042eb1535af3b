package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Artists() ArtistRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Outbox() OutboxRepository
}
