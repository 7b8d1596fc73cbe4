package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/penzolll/umi-shop-digital/internal/cache"
	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cartCache,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	// Use singleflight so concurrent misses for the same user hit the
	// database once.
	v, err, _ := s.sfg.Do(fmt.Sprint(userID), func() (interface{}, error) {
		if s.cache != nil {
			cart, err := s.cache.Get(ctx, userID)
			if err == nil {
				return cart, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Printf("cart cache get error: %v", err) // log cache error but continue
			}
		}

		items, err := s.repo.GetCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		cart := domain.BuildCart(userID, items)

		if s.cache != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if errSet := s.cache.Set(ctx, userID, cart); errSet != nil {
					log.Printf("cart cache set error: %v", errSet)
				}
			}()
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	line, err := s.repo.AddCartItem(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return line, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartLine, error) {
	line, err := s.repo.UpdateCartItemQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if err := s.repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID int64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}
