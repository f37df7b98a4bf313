package sandbox

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/shopspring/decimal"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	uid := owner(r)

	s.mu.Lock()
	out := []inventory.Category{}
	for _, c := range s.categories {
		if c.owner == uid {
			out = append(out, c.Category)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		fieldErrors{"name": {"This field may not be blank."}}.write(w)
		return
	}

	uid := owner(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.owner == uid && c.Name == in.Name {
			fieldErrors{"non_field_errors": {"The fields name, user must make a unique set."}}.write(w)
			return
		}
	}

	c := &category{Category: inventory.Category{ID: s.nextID(), Name: in.Name}, owner: uid}
	s.categories[c.ID] = c
	writeJSON(w, http.StatusCreated, c.Category)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.categories[id]
	if !ok || !found || c.owner != owner(r) {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c.Category)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.categories[id]
	if !ok || !found || c.owner != owner(r) {
		notFound(w)
		return
	}
	delete(s.categories, id)

	// Products keep existing without a category
	for _, p := range s.products {
		if p.Category == id {
			p.Category = 0
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// productView fills the denormalized fields. Must be called with s.mu held.
func (s *Server) productView(p *product) inventory.Product {
	out := p.Product
	out.CategoryName = ""
	if c, ok := s.categories[p.Category]; ok {
		out.CategoryName = c.Name
	}
	return out
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	uid := owner(r)
	var categoryID int64
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid category.")
			return
		}
		categoryID = id
	}

	s.mu.Lock()
	out := []inventory.Product{}
	for _, p := range s.products {
		if p.owner != uid || (categoryID != 0 && p.Category != categoryID) {
			continue
		}
		out = append(out, s.productView(p))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

type productRequest struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Quantity    *int             `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Category    *int64           `json:"category"`
}

// applyProduct validates in and applies it to p. Must be called with s.mu held.
func (s *Server) applyProduct(uid int64, p *product, in productRequest) fieldErrors {
	errs := fieldErrors{}

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		errs.add("name", "This field is required.")
	}
	if in.SKU == nil || strings.TrimSpace(*in.SKU) == "" {
		errs.add("sku", "This field is required.")
	}
	if in.Price == nil {
		errs.add("price", "This field is required.")
	} else if in.Price.IsNegative() {
		errs.add("price", "Price can't be negative")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		errs.add("quantity", "Number can't be negative")
	}
	if in.Category != nil && *in.Category != 0 {
		if c, ok := s.categories[*in.Category]; !ok || c.owner != uid {
			errs.add("category", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.Category))
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for _, other := range s.products {
		if other.owner == uid && other.SKU == *in.SKU && other.ID != p.ID {
			errs.add("sku", fmt.Sprintf("Product with SKU %q already exists for your account.", *in.SKU))
			return errs
		}
	}

	p.Name = *in.Name
	p.SKU = *in.SKU
	p.Price = *in.Price
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	return nil
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in productRequest
	if !decode(w, r, &in) {
		return
	}
	uid := owner(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &product{owner: uid}
	if errs := s.applyProduct(uid, p, in); errs.write(w) {
		return
	}
	p.ID = s.nextID()
	s.products[p.ID] = p
	s.record(uid, p.ID, max(p.Quantity, 0))

	writeJSON(w, http.StatusCreated, s.productView(p))
}

// ownedProduct must be called with s.mu held.
func (s *Server) ownedProduct(r *http.Request) (*product, bool) {
	id, ok := pathID(r)
	if !ok {
		return nil, false
	}
	p, found := s.products[id]
	if !found || p.owner != owner(r) {
		return nil, false
	}
	return p, true
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.ownedProduct(r)
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, s.productView(p))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in productRequest
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.ownedProduct(r)
	if !ok {
		notFound(w)
		return
	}

	updated := *p
	if errs := s.applyProduct(p.owner, &updated, in); errs.write(w) {
		return
	}
	if change := updated.Quantity - p.Quantity; change != 0 {
		s.record(p.owner, p.ID, change)
	}
	*p = updated

	writeJSON(w, http.StatusOK, s.productView(p))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.ownedProduct(r)
	if !ok {
		notFound(w)
		return
	}
	delete(s.products, p.ID)
	s.record(p.owner, p.ID, -p.Quantity)
	for id, o := range s.orders {
		if o.Product == p.ID {
			delete(s.orders, id)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
